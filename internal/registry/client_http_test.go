package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/testutil"
)

func TestHTTPIdentityClientResolvesBatch(t *testing.T) {
	testutil.Given(t, "a party registry that resolves one of two ids")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/party/resolve", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matches":[
			{"legalId":"19900101-1234","partyId":"party-1"},
			{"legalId":"20000101-5678","partyId":""}
		]}`))
	}))
	defer srv.Close()
	client := NewHTTPIdentityClient(HTTPClientConfig{BaseURL: srv.URL})

	testutil.When(t, "both ids are resolved")
	resolved, err := client.Resolve(context.Background(), []string{"19900101-1234", "20000101-5678"})

	testutil.Then(t, "only the matched id appears in the result")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"19900101-1234": "party-1"}, resolved)
}

func TestHTTPIdentityClientSkipsEmptyBatch(t *testing.T) {
	client := NewHTTPIdentityClient(HTTPClientConfig{BaseURL: "http://unused"})
	resolved, err := client.Resolve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
}

func TestHTTPCitizenClientMapsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2281/citizen/batch", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"partyId":"party-1","personalNumber":"19900101-1234",
			"registeredInSweden":true,"givenname":"Anna","lastname":"Svensson",
			"addresses":[{"address":"Storgatan 1","postalCode":"85230","city":"Sundsvall"}]
		}]`))
	}))
	defer srv.Close()
	client := NewHTTPCitizenClient(HTTPClientConfig{BaseURL: srv.URL})

	records, err := client.Fetch(context.Background(), "2281", []string{"party-1"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "party-1", records[0].PartyID)
	assert.True(t, records[0].RegisteredInHomeCountry)
	require.NotNil(t, records[0].Address)
	assert.Equal(t, "Storgatan 1", records[0].Address.Street)
	assert.Equal(t, "Anna", records[0].Address.FirstName)
}

func TestHTTPMailboxClientMapsStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2281/precheck", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recipients":[
			{"partyId":"party-1","deliverable":true},
			{"partyId":"party-2","deliverable":false,"reason":"no mailbox"}
		]}`))
	}))
	defer srv.Close()
	client := NewHTTPMailboxClient(HTTPClientConfig{BaseURL: srv.URL})

	statuses, err := client.Precheck(context.Background(), "2281", "5591628136", []string{"party-1", "party-2"})
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[0].Reachable)
	assert.False(t, statuses[1].Reachable)
	assert.Equal(t, "no mailbox", statuses[1].Reason)
}

func TestUpstreamErrorsAreUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	client := NewHTTPIdentityClient(HTTPClientConfig{BaseURL: srv.URL})

	_, err := client.Resolve(context.Background(), []string{"19900101-1234"})
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)
}

func TestBreakerFailsFastAfterRepeatedOutages(t *testing.T) {
	testutil.Given(t, "a registry that is consistently down")
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := NewHTTPIdentityClient(HTTPClientConfig{BaseURL: srv.URL})

	testutil.When(t, "calls keep failing past the breaker threshold")
	for range 8 {
		_, err := client.Resolve(context.Background(), []string{"19900101-1234"})
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	}

	testutil.Then(t, "the open circuit stops reaching the upstream")
	assert.Equal(t, 5, calls)
	assert.True(t, client.breaker.IsOpen())
}
