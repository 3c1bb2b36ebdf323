package version

import (
	"fmt"
	"strconv"
	"strings"
)

type semver struct {
	parts      [3]int
	prerelease string
}

func parse(s string) (semver, error) {
	var v semver

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, v.prerelease, _ = strings.Cut(s, "-")

	fields := strings.Split(s, ".")
	if len(fields) == 0 || len(fields) > 3 {
		return v, fmt.Errorf("invalid version %q", s)
	}

	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return v, fmt.Errorf("invalid version %q", s)
		}
		v.parts[i] = n
	}

	return v, nil
}

// Compare orders two versions such as "v1.2.0", "1.2" or "1.2.0-rc1".
// It returns 1 if a > b, -1 if a < b and 0 if they are equal. A pre-release sorts before its release.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av.parts {
		if av.parts[i] != bv.parts[i] {
			if av.parts[i] > bv.parts[i] {
				return 1, nil
			}
			return -1, nil
		}
	}

	switch {
	case av.prerelease == bv.prerelease:
		return 0, nil
	case av.prerelease == "":
		return 1, nil
	case bv.prerelease == "":
		return -1, nil
	default:
		return strings.Compare(av.prerelease, bv.prerelease), nil
	}
}
