package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lunavoice/luna/internal/domain"
	"github.com/lunavoice/luna/internal/domain/criteria"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
	"github.com/lunavoice/luna/internal/usecase/flightinfo"
)

type mockFinder struct {
	findFn func(ctx context.Context, c criteria.Criteria) (string, error)
}

func (m *mockFinder) Find(ctx context.Context, c criteria.Criteria) (string, error) {
	return m.findFn(ctx, c)
}

type mockSearcher struct {
	searchFn func(ctx context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error)
}

func (m *mockSearcher) Search(ctx context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error) {
	return m.searchFn(ctx, freeText, filterExpr, topK)
}

type mockFlights struct {
	lookupFn func(ctx context.Context, source, destination, tripDate string) (flightinfo.Info, error)
}

func (m *mockFlights) Lookup(ctx context.Context, source, destination, tripDate string) (flightinfo.Info, error) {
	return m.lookupFn(ctx, source, destination, tripDate)
}

type mockVerifier struct {
	verifyFn func(ctx context.Context, claimed []string) ([]domkb.Passage, error)
}

func (m *mockVerifier) Verify(ctx context.Context, claimed []string) ([]domkb.Passage, error) {
	return m.verifyFn(ctx, claimed)
}

func newRegistry(t *testing.T, finder DestinationFinder, searcher Searcher, flights FlightLookup, verifier Verifier) *Registry {
	t.Helper()
	if finder == nil {
		finder = &mockFinder{findFn: func(_ context.Context, _ criteria.Criteria) (string, error) {
			t.Error("unexpected Find call")
			return "", nil
		}}
	}
	if searcher == nil {
		searcher = &mockSearcher{searchFn: func(_ context.Context, _, _ string, _ int) ([]domkb.Passage, error) {
			t.Error("unexpected Search call")
			return nil, nil
		}}
	}
	if flights == nil {
		flights = &mockFlights{lookupFn: func(_ context.Context, _, _, _ string) (flightinfo.Info, error) {
			t.Error("unexpected Lookup call")
			return flightinfo.Info{}, nil
		}}
	}
	if verifier == nil {
		verifier = &mockVerifier{verifyFn: func(_ context.Context, _ []string) ([]domkb.Passage, error) {
			t.Error("unexpected Verify call")
			return nil, nil
		}}
	}

	b := NewBuilder()
	if err := Attach(b, finder, searcher, flights, verifier); err != nil {
		t.Fatalf("attach: %v", err)
	}
	return b.Build()
}

func TestRegistry_SchemasSortedAndComplete(t *testing.T) {
	reg := newRegistry(t, nil, nil, nil, nil)

	schemas := reg.Schemas()
	want := []string{
		NameFindDestination,
		NameDestinationInfo,
		NameFlightInfo,
		NameReportGrounding,
		NameSearch,
	}
	if len(schemas) != len(want) {
		t.Fatalf("expected %d schemas, got %d", len(want), len(schemas))
	}
	for i, name := range want {
		if schemas[i].Name != name {
			t.Errorf("schema %d: expected %q, got %q", i, name, schemas[i].Name)
		}
		if schemas[i].Type != "function" {
			t.Errorf("schema %q: expected function type, got %q", name, schemas[i].Type)
		}
	}
}

func TestRegistry_DuplicateRegistrationFails(t *testing.T) {
	b := NewBuilder()
	tool := Tool{
		Schema: searchSchema(),
		Handle: func(_ context.Context, _ json.RawMessage) (Result, error) { return Result{}, nil },
	}
	if err := b.Register(tool); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := b.Register(tool); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	reg := newRegistry(t, nil, nil, nil, nil)

	_, err := reg.Dispatch(context.Background(), "teleport", json.RawMessage(`{}`))
	if !errors.Is(err, domain.ErrUnknownTool) {
		t.Fatalf("expected unknown tool error, got %v", err)
	}
}

func TestDispatch_FindDestination(t *testing.T) {
	var got criteria.Criteria
	reg := newRegistry(t, &mockFinder{
		findFn: func(_ context.Context, c criteria.Criteria) (string, error) {
			got = c
			return "[madrid_01]: Madrid\n-----\n", nil
		},
	}, nil, nil, nil)

	raw := json.RawMessage(`{"current_location":"LIS","max_flight_duration":3,"max_price":200,"categories":["Praia"],"content":"praias"}`)
	res, err := reg.Dispatch(context.Background(), NameFindDestination, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Direction != ToServer {
		t.Error("expected a server-bound result")
	}
	if res.Text != "[madrid_01]: Madrid\n-----\n" {
		t.Errorf("unexpected text: %q", res.Text)
	}
	if got.Origin() != "LIS" || got.MaxDuration() == nil || *got.MaxDuration() != 3 {
		t.Errorf("criteria not decoded: %+v", got)
	}
	if got.FreeText() != "praias" {
		t.Errorf("free text not decoded: %q", got.FreeText())
	}
}

func TestDispatch_FindDestinationMissingOrigin(t *testing.T) {
	reg := newRegistry(t, nil, nil, nil, nil)

	_, err := reg.Dispatch(context.Background(), NameFindDestination, json.RawMessage(`{"max_price":200}`))
	if !errors.Is(err, domain.ErrMissingOrigin) {
		t.Fatalf("expected missing origin error, got %v", err)
	}
}

func TestDispatch_FindDestinationUnknownField(t *testing.T) {
	reg := newRegistry(t, nil, nil, nil, nil)

	_, err := reg.Dispatch(context.Background(), NameFindDestination, json.RawMessage(`{"current_location":"LIS","budget":10}`))
	if !errors.Is(err, domain.ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments error, got %v", err)
	}
}

func TestDispatch_DestinationInfoUsesTopK3(t *testing.T) {
	var gotTopK int
	var gotQuery string
	reg := newRegistry(t, nil, &mockSearcher{
		searchFn: func(_ context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error) {
			gotQuery = freeText
			gotTopK = topK
			if filterExpr != "" {
				t.Errorf("expected no filter, got %q", filterExpr)
			}
			return []domkb.Passage{{Key: "madrid_01", Body: "Madrid"}}, nil
		},
	}, nil, nil)

	res, err := reg.Dispatch(context.Background(), NameDestinationInfo, json.RawMessage(`{"query":"O que fazer em Madrid?"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "O que fazer em Madrid?" || gotTopK != 3 {
		t.Errorf("unexpected search call: query=%q topK=%d", gotQuery, gotTopK)
	}
	if res.Text != "[madrid_01]: Madrid\n-----\n" {
		t.Errorf("unexpected text: %q", res.Text)
	}
}

func TestDispatch_SearchUsesTopK5(t *testing.T) {
	var gotTopK int
	reg := newRegistry(t, nil, &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, topK int) ([]domkb.Passage, error) {
			gotTopK = topK
			return nil, nil
		},
	}, nil, nil)

	if _, err := reg.Dispatch(context.Background(), NameSearch, json.RawMessage(`{"query":"praias"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTopK != 5 {
		t.Errorf("expected topK 5, got %d", gotTopK)
	}
}

func TestDispatch_FlightInfoReturnsPayload(t *testing.T) {
	reg := newRegistry(t, nil, nil, &mockFlights{
		lookupFn: func(_ context.Context, source, destination, tripDate string) (flightinfo.Info, error) {
			return flightinfo.Info{
				Source: source, Destination: destination,
				Price: 89.90, Duration: 1.25, TripDate: tripDate,
			}, nil
		},
	}, nil)

	raw := json.RawMessage(`{"current_location":"LIS","destination":"MAD","trip_date":"2026-09-15"}`)
	res, err := reg.Dispatch(context.Background(), NameFlightInfo, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Direction != ToServer {
		t.Error("expected a server-bound result")
	}
	info, ok := res.Payload.(flightinfo.Info)
	if !ok {
		t.Fatalf("expected flight info payload, got %T", res.Payload)
	}
	if info.Price != 89.90 || info.Duration != 1.25 {
		t.Errorf("unexpected payload: %+v", info)
	}
}

func TestDispatch_ReportGroundingGoesToClient(t *testing.T) {
	reg := newRegistry(t, nil, nil, nil, &mockVerifier{
		verifyFn: func(_ context.Context, claimed []string) ([]domkb.Passage, error) {
			if len(claimed) != 2 {
				t.Errorf("expected 2 claimed keys, got %v", claimed)
			}
			return []domkb.Passage{{Key: "madrid_01", Title: "Madrid", Body: "..."}}, nil
		},
	})

	raw := json.RawMessage(`{"sources":["madrid_01","bogus key"]}`)
	res, err := reg.Dispatch(context.Background(), NameReportGrounding, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Direction != ToClient {
		t.Error("expected a client-bound result")
	}
	report, ok := res.Payload.(GroundingReport)
	if !ok {
		t.Fatalf("expected grounding report payload, got %T", res.Payload)
	}
	if len(report.Sources) != 1 || report.Sources[0].Key != "madrid_01" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestDispatch_HandlerErrorPropagates(t *testing.T) {
	boom := errors.New("search down")
	reg := newRegistry(t, nil, &mockSearcher{
		searchFn: func(_ context.Context, _, _ string, _ int) ([]domkb.Passage, error) {
			return nil, boom
		},
	}, nil, nil)

	if _, err := reg.Dispatch(context.Background(), NameSearch, json.RawMessage(`{"query":"x"}`)); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
