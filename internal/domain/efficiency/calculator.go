package efficiency

import "math"

// Calculator evaluates the closed-form figures of merit. It holds no state
// beyond its configuration and is safe for concurrent use.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) Calculator {
	return Calculator{cfg: cfg}
}

// Calculate derives F1, F2 and efficiency for both conditions from the
// plate stagnation temperature tps and the request inputs.
func (c Calculator) Calculate(tps float64, req Request) Result {
	k := c.cfg.Constants
	gt := req.AvgRadiation

	f1 := (tps - k.AmbientTemp) / gt

	waterC1 := (k.WaterMass * k.PlateArea * k.WaterSpecificHeat) / k.ExposureSeconds
	pcmC1 := waterC1
	if c.cfg.IncludePCM {
		pcmC1 = ((k.WaterMass*k.WaterSpecificHeat + k.PCMMass*k.PCMSpecificHeat) * k.PlateArea) / k.ExposureSeconds
	}

	f2Without := f1 * waterC1 * c.heatLossFactor(f1, gt, req.Tw2WithoutPCM)
	f2With := f1 * pcmC1 * c.heatLossFactor(f1, gt, req.Tw2WithPCM)

	return Result{
		F1:            finite(f1),
		F2WithoutPCM:  finite(f2Without),
		F2WithPCM:     finite(f2With),
		EffWithoutPCM: finite(c.efficiency(gt, req.Tw2WithoutPCM, false)),
		EffWithPCM:    finite(c.efficiency(gt, req.Tw2WithPCM, c.cfg.IncludePCM)),
	}
}

// heatLossFactor is C2 = ln(N/D). Outside the log domain (N or D not
// strictly positive, including NaN) it is exactly 1.
func (c Calculator) heatLossFactor(f1, gt, tw2 float64) float64 {
	k := c.cfg.Constants
	n := 1 - (1/f1)*((k.InitialWaterTemp-k.AmbientTemp)/gt)
	d := 1 - (1/f1)*((tw2-k.AmbientTemp)/gt)
	if n > 0 && d > 0 {
		return math.Log(n / d)
	}
	return 1
}

func (c Calculator) efficiency(gt, tw2 float64, withPCM bool) float64 {
	k := c.cfg.Constants
	dT := tw2 - k.InitialWaterTemp
	energy := k.PotMass*k.PotSpecificHeat*dT + k.WaterMass*k.WaterSpecificHeat*dT
	if withPCM {
		energy += k.PCMMass * k.PCMSpecificHeat * dT
	}
	return energy / (gt * k.ExposureSeconds * k.PlateArea)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
