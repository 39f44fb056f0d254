package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stojg/bestfit/leastsquares"
)

// Launch temperatures (°F) and O-ring failures of the 23 shuttle flights
// before Challenger.
var (
	challengerTemps    = []int{53, 75, 57, 58, 63, 70, 70, 66, 67, 67, 67, 68, 69, 70, 70, 72, 73, 76, 76, 78, 79, 80, 81}
	challengerFailures = []int{3, 2, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// builtinDataset resolves "name" or "name:N", where N keeps the first N pairs.
func builtinDataset(ref string) (*observations, error) {
	name, count, hasCount := strings.Cut(ref, ":")
	if name != "challenger" {
		return nil, fmt.Errorf("unknown dataset '%s'", name)
	}

	n := len(challengerTemps)
	if hasCount {
		var err error
		if n, err = strconv.Atoi(count); err != nil || n < 1 || n > len(challengerTemps) {
			return nil, fmt.Errorf("dataset %s has %d pairs, can't take '%s'", name, len(challengerTemps), count)
		}
	}

	return &observations{
		x: leastsquares.Float64s(challengerTemps[:n]),
		y: leastsquares.Float64s(challengerFailures[:n]),
	}, nil
}
