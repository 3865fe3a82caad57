package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zamansheikh/bowlersnetwork-sub000/internal/core/domain"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, bool, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(domain.Coordinates), args.Bool(1), args.Error(2)
}

type MockGeocodeCache struct {
	mock.Mock
}

func (m *MockGeocodeCache) Get(ctx context.Context, location string) (domain.Coordinates, bool, error) {
	args := m.Called(ctx, location)
	return args.Get(0).(domain.Coordinates), args.Bool(1), args.Error(2)
}

func (m *MockGeocodeCache) Set(ctx context.Context, location string, coords domain.Coordinates) error {
	args := m.Called(ctx, location, coords)
	return args.Error(0)
}

const testDebounce = 20 * time.Millisecond

func TestLocationResolverDebounce(t *testing.T) {
	geocoder := new(MockGeocoder)
	brooklyn := domain.Coordinates{Lat: 40.6782, Lng: -73.9442}
	geocoder.On("Geocode", mock.Anything, "Brooklyn, NY").Return(brooklyn, true, nil).Once()

	r := NewLocationResolver(geocoder, nil, testDebounce, nil)
	defer r.Close()

	r.Update("Bro")
	r.Update("Brooklyn")
	r.Update("Brooklyn, NY")
	assert.Nil(t, r.Center(), "nothing resolves inside the window")

	require.Eventually(t, func() bool { return r.Center() != nil }, time.Second, 5*time.Millisecond)
	text, center := r.Current()
	assert.Equal(t, "Brooklyn, NY", text)
	assert.Equal(t, brooklyn, *center)
	geocoder.AssertNumberOfCalls(t, "Geocode", 1)
}

func TestLocationResolverCache(t *testing.T) {
	geocoder := new(MockGeocoder)
	cache := new(MockGeocodeCache)
	queens := domain.Coordinates{Lat: 40.7282, Lng: -73.7949}

	cache.On("Get", mock.Anything, "queens").Return(domain.Coordinates{}, false, nil).Once()
	geocoder.On("Geocode", mock.Anything, "Queens").Return(queens, true, nil).Once()
	cache.On("Set", mock.Anything, "queens", queens).Return(nil).Once()

	r := NewLocationResolver(geocoder, cache, testDebounce, nil)
	defer r.Close()

	r.Update("Queens")
	require.Eventually(t, func() bool { return r.Center() != nil }, time.Second, 5*time.Millisecond)

	cache.On("Get", mock.Anything, "queens").Return(queens, true, nil).Once()
	r.Update("")
	assert.Nil(t, r.Center())
	r.Update(" QUEENS ")
	require.Eventually(t, func() bool { return r.Center() != nil }, time.Second, 5*time.Millisecond)

	geocoder.AssertNumberOfCalls(t, "Geocode", 1)
	cache.AssertExpectations(t)
}

func TestLocationResolverFailureLeavesNoCenter(t *testing.T) {
	geocoder := new(MockGeocoder)
	resolved := make(chan struct{})
	geocoder.On("Geocode", mock.Anything, "Atlantis").
		Run(func(mock.Arguments) { close(resolved) }).
		Return(domain.Coordinates{}, false, nil)

	r := NewLocationResolver(geocoder, nil, testDebounce, nil)
	defer r.Close()

	r.Update("Atlantis")
	select {
	case <-resolved:
	case <-time.After(time.Second):
		t.Fatal("geocoder never called")
	}
	time.Sleep(testDebounce)
	assert.Nil(t, r.Center())
}

func TestLocationResolverRetriesSameText(t *testing.T) {
	geocoder := new(MockGeocoder)
	queens := domain.Coordinates{Lat: 40.7282, Lng: -73.7949}
	geocoder.On("Geocode", mock.Anything, "Queens").Return(domain.Coordinates{}, false, domain.ErrTransport).Once()
	geocoder.On("Geocode", mock.Anything, "Queens").Return(queens, true, nil).Once()

	r := NewLocationResolver(geocoder, nil, testDebounce, nil)
	defer r.Close()

	r.Update("Queens")
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.timer == nil
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, r.Center())

	r.Update("Queens")
	require.Eventually(t, func() bool { return r.Center() != nil }, time.Second, 5*time.Millisecond)
	assert.Equal(t, queens, *r.Center())

	r.Update("Queens")
	time.Sleep(3 * testDebounce)
	geocoder.AssertNumberOfCalls(t, "Geocode", 2)
}

func TestLocationResolverClose(t *testing.T) {
	geocoder := new(MockGeocoder)
	r := NewLocationResolver(geocoder, nil, testDebounce, nil)

	r.Update("Staten Island")
	r.Close()
	time.Sleep(3 * testDebounce)

	geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	r.Update("Harlem")
	text, _ := r.Current()
	assert.Equal(t, "Staten Island", text)
}
