package http

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// queryList collects a repeated numeric query parameter. Comma-separated
// values are split so both ?x=1&x=2 and ?x=1,2 work.
func queryList(c *gin.Context, name string) []string {
	var out []string
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func requiredList(c *gin.Context, name string) ([]string, error) {
	values := queryList(c, name)
	if len(values) == 0 {
		return nil, fmt.Errorf("query parameter %s is required", name)
	}
	return values, nil
}

// queryLabels collects free-text labels. Each repeated key is one label, so
// commas inside a label are kept.
func queryLabels(c *gin.Context, name string) ([]string, error) {
	var out []string
	for _, raw := range c.QueryArray(name) {
		if v := strings.TrimSpace(raw); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("query parameter %s is required", name)
	}
	return out, nil
}

func queryInts(c *gin.Context, name string) ([]int, error) {
	raw, err := requiredList(c, name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]=%q is not an integer", name, i, v)
		}
		out[i] = n
	}
	return out, nil
}

func queryFloats(c *gin.Context, name string) ([]float64, error) {
	raw, err := requiredList(c, name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		f, err := parseFinite(v)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]=%q %w", name, i, v, err)
		}
		out[i] = f
	}
	return out, nil
}

// queryFloat reads a single number, trying each alias in order.
func queryFloat(c *gin.Context, names ...string) (float64, error) {
	for _, name := range names {
		v, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		f, err := parseFinite(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s=%q %w", name, v, err)
		}
		return f, nil
	}
	return 0, fmt.Errorf("query parameter %s is required", names[0])
}

func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errNotANumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

var (
	errNotANumber = errors.New("is not a number")
	errNotFinite  = errors.New("must be a finite number")
)
