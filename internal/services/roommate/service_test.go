package roommate

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout/internal/domain"
	"roomscout/internal/repository"
)

// MockOptInStore — in-memory хранилище откликов.
type MockOptInStore struct {
	optIns map[string]map[int64]bool
}

func NewMockOptInStore() *MockOptInStore {
	return &MockOptInStore{optIns: map[string]map[int64]bool{}}
}

func (m *MockOptInStore) OptIn(ctx context.Context, userID string, listingID int64) (bool, error) {
	if m.optIns[userID] == nil {
		m.optIns[userID] = map[int64]bool{}
	}
	if m.optIns[userID][listingID] {
		return false, nil
	}
	m.optIns[userID][listingID] = true
	return true, nil
}

func (m *MockOptInStore) OptOut(ctx context.Context, userID string, listingID int64) (bool, error) {
	if !m.optIns[userID][listingID] {
		return false, nil
	}
	delete(m.optIns[userID], listingID)
	return true, nil
}

func (m *MockOptInStore) IsOptedIn(ctx context.Context, userID string, listingID int64) (bool, error) {
	return m.optIns[userID][listingID], nil
}

func (m *MockOptInStore) ListByListing(ctx context.Context, listingID int64) ([]domain.Roommate, error) {
	var out []domain.Roommate
	for userID, listings := range m.optIns {
		if listings[listingID] {
			out = append(out, domain.Roommate{UserID: userID})
		}
	}
	return out, nil
}

// MockListingChecker — мок существования объявления.
type MockListingChecker struct {
	ExistsFunc func(ctx context.Context, id int64) (bool, error)
}

func (m *MockListingChecker) Exists(ctx context.Context, id int64) (bool, error) {
	return m.ExistsFunc(ctx, id)
}

// MockProfileProvider — мок профиля.
type MockProfileProvider struct {
	GetPreferencesFunc func(ctx context.Context, userID string) (domain.UserPreferences, error)
}

func (m *MockProfileProvider) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	return m.GetPreferencesFunc(ctx, userID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func existingListings() *MockListingChecker {
	return &MockListingChecker{
		ExistsFunc: func(ctx context.Context, id int64) (bool, error) { return true, nil },
	}
}

func newService(store *MockOptInStore) *Service {
	return New(testLogger(), store, existingListings(), &MockProfileProvider{})
}

func TestOptIn_ThenDuplicateConflicts(t *testing.T) {
	svc := newService(NewMockOptInStore())

	require.NoError(t, svc.OptIn(context.Background(), "user-1", 1001))

	// Повторный отклик — конфликт, а не тихий успех.
	err := svc.OptIn(context.Background(), "user-1", 1001)
	assert.ErrorIs(t, err, ErrAlreadyOptedIn)
}

func TestOptOut_WithoutOptInConflicts(t *testing.T) {
	svc := newService(NewMockOptInStore())

	err := svc.OptOut(context.Background(), "user-1", 1001)
	assert.ErrorIs(t, err, ErrNotOptedIn)
}

func TestOptInOptOutRoundTrip(t *testing.T) {
	svc := newService(NewMockOptInStore())
	ctx := context.Background()

	require.NoError(t, svc.OptIn(ctx, "user-1", 1001))

	optedIn, err := svc.Status(ctx, "user-1", 1001)
	require.NoError(t, err)
	assert.True(t, optedIn)

	require.NoError(t, svc.OptOut(ctx, "user-1", 1001))

	optedIn, err = svc.Status(ctx, "user-1", 1001)
	require.NoError(t, err)
	assert.False(t, optedIn)
}

func TestOptIn_ListingNotFound(t *testing.T) {
	listings := &MockListingChecker{
		ExistsFunc: func(ctx context.Context, id int64) (bool, error) { return false, nil },
	}
	svc := New(testLogger(), NewMockOptInStore(), listings, &MockProfileProvider{})

	err := svc.OptIn(context.Background(), "user-1", 404)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListRoommates(t *testing.T) {
	store := NewMockOptInStore()
	svc := newService(store)
	ctx := context.Background()

	require.NoError(t, svc.OptIn(ctx, "user-1", 1001))
	require.NoError(t, svc.OptIn(ctx, "user-2", 1001))
	require.NoError(t, svc.OptIn(ctx, "user-3", 2002))

	roommates, err := svc.ListRoommates(ctx, 1001)
	require.NoError(t, err)
	assert.Len(t, roommates, 2)
}

func TestCheckPreferences(t *testing.T) {
	t.Run("полный профиль", func(t *testing.T) {
		profiles := &MockProfileProvider{
			GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
				min, max := 900.0, 2000.0
				zip := "80203"
				s := func(v string) *string { return &v }
				return domain.UserPreferences{
					UserID:             userID,
					MinBudget:          &min,
					MaxBudget:          &max,
					WorkZipCode:        &zip,
					WorkPoint:          &domain.Point{Latitude: 39.7392, Longitude: -104.9903},
					RoommateStatus:     s(domain.RoommateStatusOpen),
					SleepTime:          s("10pm-midnight"),
					WakeTime:           s("6am-8am"),
					Cleanliness:        s("Average"),
					NoiseTolerance:     s("Moderate"),
					GuestFrequency:     s("Sometimes"),
					SmokingPreference:  s("No smoking"),
					DrinkingPreference: s("Social drinking"),
					PetPreference:      s("Cats ok"),
				}, nil
			},
		}
		svc := New(testLogger(), NewMockOptInStore(), existingListings(), profiles)

		missing, err := svc.CheckPreferences(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("неполный профиль перечисляет поля", func(t *testing.T) {
		profiles := &MockProfileProvider{
			GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
				return domain.UserPreferences{UserID: userID}, nil
			},
		}
		svc := New(testLogger(), NewMockOptInStore(), existingListings(), profiles)

		missing, err := svc.CheckPreferences(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Contains(t, missing, "min_budget")
		assert.Contains(t, missing, "roommate_status")
		assert.Contains(t, missing, "pet_preference")
	})

	t.Run("неизвестный пользователь", func(t *testing.T) {
		profiles := &MockProfileProvider{
			GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
				return domain.UserPreferences{}, repository.ErrUserNotFound
			},
		}
		svc := New(testLogger(), NewMockOptInStore(), existingListings(), profiles)

		_, err := svc.CheckPreferences(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
