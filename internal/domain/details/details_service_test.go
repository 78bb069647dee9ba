package details

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/forkcast/forkcast/internal/provider"
	"github.com/forkcast/forkcast/internal/types"
)

type MockPlaces struct {
	mock.Mock
}

func (m *MockPlaces) TextSearch(ctx context.Context, req provider.TextSearchRequest) (*provider.TextSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.TextSearchResponse), args.Error(1)
}

func (m *MockPlaces) Details(ctx context.Context, req provider.DetailsRequest) (*provider.DetailsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.DetailsResponse), args.Error(1)
}

func (m *MockPlaces) Autocomplete(ctx context.Context, input string) (*provider.AutocompleteResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.AutocompleteResponse), args.Error(1)
}

func (m *MockPlaces) PhotoURL(photoReference string, maxWidth int) string {
	args := m.Called(photoReference, maxWidth)
	return args.String(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func richPlace() *provider.Place {
	open := true
	p := &provider.Place{
		PlaceID:              "place-1",
		FormattedPhoneNumber: "(212) 555-0142",
		Website:              "https://luigis.example",
		URL:                  "https://maps.example/place-1",
		OpeningHours: &provider.OpeningHours{
			OpenNow:     &open,
			WeekdayText: []string{"Monday: 11AM-10PM", "Tuesday: 11AM-10PM"},
		},
	}
	for i := 0; i < 7; i++ {
		p.Photos = append(p.Photos, provider.Photo{
			PhotoReference:   fmt.Sprintf("ref-%d", i),
			HTMLAttributions: []string{fmt.Sprintf("attribution-%d", i), "second-ignored"},
		})
	}
	for i := 0; i < 5; i++ {
		p.Reviews = append(p.Reviews, provider.Review{
			AuthorName:              fmt.Sprintf("author-%d", i),
			Rating:                  4,
			Text:                    "great pasta",
			RelativeTimeDescription: "a week ago",
		})
	}
	return p
}

func TestGetDetailsNormalizesAndBounds(t *testing.T) {
	places := new(MockPlaces)
	places.On("Details", mock.Anything, mock.MatchedBy(func(req provider.DetailsRequest) bool {
		return req.PlaceID == "place-1" && len(req.Fields) == 6
	})).Return(&provider.DetailsResponse{Status: provider.StatusOK, Result: richPlace()}, nil).Once()
	places.On("PhotoURL", mock.Anything, 400).Return("https://photos.example/bounded")

	svc := NewServiceImpl(places, testLogger())

	d, err := svc.GetDetails(context.Background(), "place-1")
	require.NoError(t, err)

	assert.Equal(t, "(212) 555-0142", d.Phone)
	assert.Equal(t, []string{"Monday: 11AM-10PM", "Tuesday: 11AM-10PM"}, d.Hours)
	require.NotNil(t, d.OpenNow)
	assert.True(t, *d.OpenNow)
	assert.Equal(t, "https://luigis.example", d.Website)
	assert.Equal(t, "https://maps.example/place-1", d.MapURL)

	require.Len(t, d.Photos, 5)
	assert.Equal(t, "https://photos.example/bounded", d.Photos[0].URL)
	assert.Equal(t, "attribution-0", d.Photos[0].Attribution)

	require.Len(t, d.Reviews, 3)
	assert.Equal(t, "author-0", d.Reviews[0].Author)
	assert.Equal(t, "a week ago", d.Reviews[0].RelativeTime)
}

func TestGetDetailsCachedAfterFirstFetch(t *testing.T) {
	places := new(MockPlaces)
	places.On("Details", mock.Anything, mock.Anything).
		Return(&provider.DetailsResponse{Status: provider.StatusOK, Result: &provider.Place{PlaceID: "p"}}, nil).Once()

	svc := NewServiceImpl(places, testLogger())

	first, err := svc.GetDetails(context.Background(), "p")
	require.NoError(t, err)

	second, err := svc.GetDetails(context.Background(), "p")
	require.NoError(t, err)

	assert.Same(t, first, second)
	places.AssertNumberOfCalls(t, "Details", 1)
}

func TestGetDetailsRejectsEmptyID(t *testing.T) {
	svc := NewServiceImpl(new(MockPlaces), testLogger())

	_, err := svc.GetDetails(context.Background(), "")
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestGetDetailsStatusFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  provider.Status
		wantErr error
	}{
		{"rate limited", provider.StatusOverQueryLimit, types.ErrRateLimited},
		{"access denied", provider.StatusRequestDenied, types.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places := new(MockPlaces)
			places.On("Details", mock.Anything, mock.Anything).
				Return(&provider.DetailsResponse{Status: tt.status}, nil).Once()

			svc := NewServiceImpl(places, testLogger())

			_, err := svc.GetDetails(context.Background(), "p")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetDetailsGenericFailureCarriesStatusText(t *testing.T) {
	places := new(MockPlaces)
	places.On("Details", mock.Anything, mock.Anything).
		Return(&provider.DetailsResponse{Status: "NOT_FOUND", ErrorMessage: "no such place"}, nil).Once()

	svc := NewServiceImpl(places, testLogger())

	_, err := svc.GetDetails(context.Background(), "gone")
	require.Error(t, err)

	var provErr *types.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "NOT_FOUND", provErr.Status)
}

func TestGetDetailsTransportFailure(t *testing.T) {
	places := new(MockPlaces)
	places.On("Details", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	svc := NewServiceImpl(places, testLogger())

	_, err := svc.GetDetails(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetDetailsConcurrentDistinctIDs(t *testing.T) {
	places := new(MockPlaces)
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("p-%d", i)
		places.On("Details", mock.Anything, mock.MatchedBy(func(req provider.DetailsRequest) bool {
			return req.PlaceID == id
		})).Return(&provider.DetailsResponse{Status: provider.StatusOK, Result: &provider.Place{PlaceID: id}}, nil).Once()
	}

	svc := NewServiceImpl(places, testLogger())

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.GetDetails(context.Background(), fmt.Sprintf("p-%d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "lookup %d", i)
	}
	places.AssertExpectations(t)
}
