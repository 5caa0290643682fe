package player

import "testing"

func TestHandFromPlays(t *testing.T) {
	t.Parallel()

	cases := map[string]Hand{
		"right-handed": HandRight,
		"left-handed":  HandLeft,
		"ambidextrous": HandLeft,
		"":             HandUnknown,
	}
	for plays, want := range cases {
		if got := HandFromPlays(plays); got != want {
			t.Fatalf("unexpected hand for %q: got=%d want=%d", plays, got, want)
		}
	}
}

func TestProfile_FillMissing_KeepsPresentFields(t *testing.T) {
	t.Parallel()

	height := 1.85
	otherHeight := 1.90
	weight := 80.0
	birth := int64(518572800)

	cached := Profile{ID: 1, FullName: "Rafael Nadal", Height: &height, Country: "ESP"}
	fetched := Profile{ID: 1, FullName: "Nadal Rafael", Height: &otherHeight, Weight: &weight, BirthDate: &birth, Hand: HandLeft}

	got := cached.FillMissing(fetched)
	if got.FullName != "Rafael Nadal" {
		t.Fatalf("full name overwritten: got=%q", got.FullName)
	}
	if got.Height == nil || *got.Height != 1.85 {
		t.Fatalf("height overwritten: got=%v", got.Height)
	}
	if got.Weight == nil || *got.Weight != 80 {
		t.Fatalf("weight not filled: got=%v", got.Weight)
	}
	if got.BirthDate == nil || *got.BirthDate != birth {
		t.Fatalf("birth date not filled")
	}
	if got.Hand != HandLeft {
		t.Fatalf("hand not filled: got=%d", got.Hand)
	}
}

func TestProfile_IsPair(t *testing.T) {
	t.Parallel()

	if !(Profile{FullName: "Granollers M. / Zeballos H."}).IsPair() {
		t.Fatalf("expected doubles pairing")
	}
	if (Profile{FullName: "Horacio Zeballos"}).IsPair() {
		t.Fatalf("unexpected doubles pairing")
	}
}
