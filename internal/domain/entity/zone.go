package entity

// Zone es una de las dos ubicaciones físicas de bodega que se controlan por ítem.
type Zone string

const (
	ZoneA Zone = "zone_a"
	ZoneB Zone = "zone_b"
)

// Valid indica si la zona es una de las dos conocidas.
func (z Zone) Valid() bool {
	return z == ZoneA || z == ZoneB
}

// ZoneNames nombres visibles de las zonas (históricamente, la ciudad de cada bodega).
type ZoneNames struct {
	A string
	B string
}

// Name devuelve el nombre visible de z.
func (n ZoneNames) Name(z Zone) string {
	switch z {
	case ZoneA:
		return n.A
	case ZoneB:
		return n.B
	}
	return string(z)
}
