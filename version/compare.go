package version

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type release struct {
	major, minor, patch int
	pre                 string
}

func parseRelease(s string) (release, error) {
	var r release

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, r.pre, _ = strings.Cut(s, "-")

	if _, err := fmt.Sscanf(s, "%d.%d.%d", &r.major, &r.minor, &r.patch); err != nil {
		return r, fmt.Errorf("bad release %q: %w", s, err)
	}

	return r, nil
}

// Compare orders two release tags: 1 if a is newer, -1 if older, 0 if equal.
// A pre-release ("1.2.0-rc1") sorts before its final release.
func Compare(a, b string) (int, error) {
	ra, err := parseRelease(a)
	if err != nil {
		return 0, err
	}

	rb, err := parseRelease(b)
	if err != nil {
		return 0, err
	}

	for _, pair := range []lo.Tuple2[int, int]{
		lo.T2(ra.major, rb.major),
		lo.T2(ra.minor, rb.minor),
		lo.T2(ra.patch, rb.patch),
	} {
		switch {
		case pair.A > pair.B:
			return 1, nil
		case pair.A < pair.B:
			return -1, nil
		}
	}

	switch {
	case ra.pre == rb.pre:
		return 0, nil
	case ra.pre == "":
		return 1, nil
	case rb.pre == "":
		return -1, nil
	default:
		return strings.Compare(ra.pre, rb.pre), nil
	}
}
