package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"sort"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
)

var playerColumns = []string{"id", "birthDate", "height", "weight", "rightHanded", "fullName", "country"}

// LoadPlayers reads the player cache of a previous run. A missing file is
// an empty cache.
func (s *Store) LoadPlayers(_ context.Context) ([]player.Profile, error) {
	profiles, err := readFile(s.path(playersFile), readPlayers)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return profiles, err
}

func readPlayers(src io.Reader) ([]player.Profile, error) {
	var out []player.Profile
	err := readTable(src, []string{"id"}, func(r *rowReader) error {
		id := r.int64p("id")
		profile := player.Profile{
			FullName:  r.str("fullName"),
			BirthDate: r.int64p("birthDate"),
			Height:    r.floatp("height"),
			Weight:    r.floatp("weight"),
			Hand:      parseHand(r.intp("rightHanded")),
			Country:   r.str("country"),
		}
		if r.err != nil {
			return r.err
		}
		if id == nil {
			return nil
		}
		profile.ID = *id
		out = append(out, profile)
		return nil
	})
	return out, err
}

func writePlayers(w *csv.Writer, profiles []player.Profile) error {
	sorted := append([]player.Profile(nil), profiles...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	if err := w.Write(playerColumns); err != nil {
		return err
	}
	for _, p := range sorted {
		id := p.ID
		if err := w.Write([]string{
			formatInt64(&id),
			formatInt64(p.BirthDate),
			formatFloat(p.Height),
			formatFloat(p.Weight),
			formatHand(p.Hand),
			p.FullName,
			p.Country,
		}); err != nil {
			return err
		}
	}
	return nil
}
