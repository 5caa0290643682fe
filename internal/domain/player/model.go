package player

import "strings"

// Hand is the dominant hand of a player.
type Hand int

const (
	HandUnknown Hand = iota
	HandRight
	HandLeft
)

// HandFromPlays maps the provider's "plays" attribute. Anything other than
// right-handed counts as left.
func HandFromPlays(plays string) Hand {
	switch strings.TrimSpace(plays) {
	case "":
		return HandUnknown
	case "right-handed":
		return HandRight
	default:
		return HandLeft
	}
}

// Profile is a player as described by the match source.
type Profile struct {
	ID        int64
	FullName  string
	BirthDate *int64
	Height    *float64
	Weight    *float64
	Hand      Hand
	Country   string
}

// IsPair reports whether the profile describes a doubles pairing such as
// "Granollers / Zeballos".
func (p Profile) IsPair() bool {
	return strings.Contains(p.FullName, "/")
}

// FillMissing copies into p every field it lacks from other. Present
// fields are never overwritten.
func (p Profile) FillMissing(other Profile) Profile {
	if strings.TrimSpace(p.FullName) == "" {
		p.FullName = other.FullName
	}
	if p.BirthDate == nil {
		p.BirthDate = other.BirthDate
	}
	if p.Height == nil {
		p.Height = other.Height
	}
	if p.Weight == nil {
		p.Weight = other.Weight
	}
	if p.Hand == HandUnknown {
		p.Hand = other.Hand
	}
	if strings.TrimSpace(p.Country) == "" {
		p.Country = other.Country
	}
	return p
}
