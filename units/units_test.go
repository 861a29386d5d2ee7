package units

import (
	"math"
	"testing"
)

func TestLengthUnits(t *testing.T) {
	if Millimeter*1000 != Meter {
		t.Errorf("1000mm != 1m")
	}
	if Centimeter*100 != Meter {
		t.Errorf("100cm != 1m")
	}
	if Meter*1000 != Kilometer {
		t.Errorf("1000m != 1km")
	}
	if Meter.InMeters() != 1 {
		t.Errorf("Meter.InMeters()=%v", Meter.InMeters())
	}
	if Meter.InMillimeters() != 1000 {
		t.Errorf("Meter.InMillimeters()=%v", Meter.InMillimeters())
	}

	if d := math.Abs((Inch * 39.37).InMeters() - 1); d > 1e-4 {
		t.Errorf("39.37in != 1m (diff %v)", d)
	}
	if d := math.Abs((Inch * 12).InMeters() - Feet.InMeters()); d > 1e-4 {
		t.Errorf("12in != 1ft (diff %v)", d)
	}
	if Feet*5280 != Mile {
		t.Errorf("5280ft != 1mile")
	}
}

func TestAngleUnits(t *testing.T) {
	a := Angle(math.Pi)
	if a.InRadians() != math.Pi {
		t.Errorf("InRadians()=%v", a.InRadians())
	}
	if a.InDegrees() != 180 {
		t.Errorf("InDegrees()=%v", a.InDegrees())
	}
}
