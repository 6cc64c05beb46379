package elimination

import "fmt"

// DefaultPercent is the share of active participants removed each day.
const DefaultPercent = 25

// Rules are the tunable parts of a daily elimination pass.
type Rules struct {
	Percent             int
	Policy              SubmissionPolicy
	ProtectLastSurvivor bool
}

func DefaultRules() Rules {
	return Rules{
		Percent: DefaultPercent,
		Policy:  PolicyBestScore,
	}
}

func (r Rules) Validate() error {
	if r.Percent < 1 || r.Percent > 100 {
		return fmt.Errorf("elimination percent must be within 1..100, got %d", r.Percent)
	}
	if _, err := ParseSubmissionPolicy(string(r.Policy)); err != nil {
		return err
	}
	return nil
}

// Quota returns ceil(total * Percent / 100), capped at total.
// Any non-empty population loses at least one participant, so a lone participant is
// eliminated unless ProtectLastSurvivor holds the quota at total-1.
func (r Rules) Quota(total int) int {
	if total <= 0 {
		return 0
	}
	n := (total*r.Percent + 99) / 100
	if n > total {
		n = total
	}
	if r.ProtectLastSurvivor && n >= total {
		n = total - 1
	}
	return n
}
