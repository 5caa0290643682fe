package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/tennis-history/internal/domain/player"
	playermock "github.com/riskibarqy/tennis-history/internal/mocks/domain/player"
	"github.com/riskibarqy/tennis-history/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestProfileService_Get_CacheHitUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	source := newFakeMatchSource()
	service := NewProfileService(repo, source, logging.NewNop())

	cached := player.Profile{ID: 7, FullName: "Casper Ruud", Country: "NOR"}
	repo.On("Get", mock.Anything, int64(7)).Return(cached, true, nil).Once()

	got, ok, err := service.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !ok {
		t.Fatalf("expected cached profile to be present")
	}
	if got.FullName != cached.FullName {
		t.Fatalf("unexpected name: got=%s want=%s", got.FullName, cached.FullName)
	}
	if source.playerCalls[7] != 0 {
		t.Fatalf("unexpected remote calls: got=%d want=0", source.playerCalls[7])
	}
}

func TestProfileService_Get_MissFetchesAndCachesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := playermock.NewRepository(t)
	source := newFakeMatchSource()
	source.players[9] = player.Profile{FullName: "Holger Rune", Country: "DNK", Hand: player.HandRight}
	service := NewProfileService(repo, source, logging.NewNop())

	repo.On("Get", mock.Anything, int64(9)).Return(player.Profile{}, false, nil).Once()
	repo.
		On("Upsert", mock.Anything, mock.MatchedBy(func(p player.Profile) bool {
			return p.ID == 9 && p.FullName == "Holger Rune"
		})).
		Return(nil).
		Once()

	got, ok, err := service.Get(ctx, 9)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if !ok || got.ID != 9 {
		t.Fatalf("unexpected profile: got=%+v ok=%v", got, ok)
	}
}

func TestProfileService_Get_AbsentCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		setup func(*fakeMatchSource)
	}{
		{name: "not found", setup: func(*fakeMatchSource) {}},
		{
			name: "doubles pairing",
			setup: func(f *fakeMatchSource) {
				f.players[11] = player.Profile{FullName: "Granollers / Zeballos"}
			},
		},
		{
			name: "transient failure",
			setup: func(f *fakeMatchSource) {
				f.playerErrs[11] = errors.New("connection reset")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := playermock.NewRepository(t)
			repo.On("Get", mock.Anything, int64(11)).Return(player.Profile{}, false, nil).Once()
			source := newFakeMatchSource()
			tc.setup(source)

			_, ok, err := NewProfileService(repo, source, logging.NewNop()).Get(context.Background(), 11)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok {
				t.Fatalf("expected absent profile")
			}
		})
	}
}

func TestProfileService_Get_AccessDeniedIsFatal(t *testing.T) {
	t.Parallel()

	repo := playermock.NewRepository(t)
	repo.On("Get", mock.Anything, int64(5)).Return(player.Profile{}, false, nil).Once()
	source := newFakeMatchSource()
	source.playerErrs[5] = ErrAccessDenied

	_, _, err := NewProfileService(repo, source, logging.NewNop()).Get(context.Background(), 5)
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}
