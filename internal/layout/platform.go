package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmmoran/cdecl/internal/model"
)

// Scalar is the size and alignment of one arithmetic type.
type Scalar struct {
	Size  int `yaml:"size" json:"size" mapstructure:"size"`
	Align int `yaml:"align" json:"align" mapstructure:"align"`
}

// Platform fixes scalar and pointer widths for a target data model.
type Platform struct {
	Name    string
	Pointer Scalar
	Scalars map[model.CKind]Scalar
}

func scalars(long, longDouble Scalar, longLong Scalar, double Scalar) map[model.CKind]Scalar {
	return map[model.CKind]Scalar{
		model.CChar:       {1, 1},
		model.CShort:      {2, 2},
		model.CInt:        {4, 4},
		model.CLong:       long,
		model.CLongLong:   longLong,
		model.CFloat:      {4, 4},
		model.CDouble:     double,
		model.CLongDouble: longDouble,
	}
}

var (
	// LP64 is the common 64-bit Unix data model.
	LP64 = Platform{
		Name:    "lp64",
		Pointer: Scalar{8, 8},
		Scalars: scalars(Scalar{8, 8}, Scalar{16, 16}, Scalar{8, 8}, Scalar{8, 8}),
	}
	// LLP64 is the 64-bit Windows data model.
	LLP64 = Platform{
		Name:    "llp64",
		Pointer: Scalar{8, 8},
		Scalars: scalars(Scalar{4, 4}, Scalar{8, 8}, Scalar{8, 8}, Scalar{8, 8}),
	}
	// ILP32 is the i386 System V data model.
	ILP32 = Platform{
		Name:    "ilp32",
		Pointer: Scalar{4, 4},
		Scalars: scalars(Scalar{4, 4}, Scalar{12, 4}, Scalar{8, 4}, Scalar{8, 4}),
	}

	platforms = map[string]Platform{
		LP64.Name:  LP64,
		LLP64.Name: LLP64,
		ILP32.Name: ILP32,
	}
)

// PlatformByName looks up a preset, case-insensitively. An empty name
// selects LP64.
func PlatformByName(name string) (Platform, error) {
	if name == "" {
		return LP64, nil
	}
	p, ok := platforms[strings.ToLower(name)]
	if !ok {
		return Platform{}, fmt.Errorf("%w: %q (known: %s)", ErrUnknownPlatform, name, strings.Join(PlatformNames(), ", "))
	}
	return p, nil
}

// PlatformNames lists the preset names in sorted order.
func PlatformNames() []string {
	names := make([]string, 0, len(platforms))
	for n := range platforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
