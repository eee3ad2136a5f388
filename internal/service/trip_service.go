package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplitter/internal/api"
	"github.com/mmynk/tripsplitter/internal/auth"
	"github.com/mmynk/tripsplitter/internal/calculator"
	"github.com/mmynk/tripsplitter/internal/ledger"
	"github.com/mmynk/tripsplitter/internal/metrics"
	"github.com/mmynk/tripsplitter/internal/middleware"
	"github.com/mmynk/tripsplitter/internal/trips"
)

// TripService implements the TripService RPC interface over a trips.Manager.
type TripService struct {
	trips   *trips.Manager
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ api.TripServiceHandler = (*TripService)(nil)

// NewTripService creates a TripService.
func NewTripService(manager *trips.Manager, m *metrics.Metrics, logger *slog.Logger) *TripService {
	return &TripService{trips: manager, metrics: m, logger: logger}
}

// currentUser returns the authenticated user set by middleware.RequireAuth.
func currentUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// CreateTrip creates an empty trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *connect.Request[api.CreateTripRequest]) (*connect.Response[api.CreateTripResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.Create(ctx, userID, req.Msg.Name)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.CreateTripResponse{Trip: toAPITrip(trip)}), nil
}

// GetTrip returns a trip with its active roster.
func (s *TripService) GetTrip(ctx context.Context, req *connect.Request[api.GetTripRequest]) (*connect.Response[api.GetTripResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	trip, err := s.trips.Get(ctx, userID, req.Msg.TripID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.GetTripResponse{Trip: toAPITrip(trip)}
	err = s.trips.View(ctx, userID, trip.ID, func(l *ledger.Ledger) error {
		resp.People = toAPIPeople(l.People())
		resp.ExpenseCount = len(l.Expenses())
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(resp), nil
}

// ListTrips returns the caller's trips, newest first.
func (s *TripService) ListTrips(ctx context.Context, req *connect.Request[api.ListTripsRequest]) (*connect.Response[api.ListTripsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.trips.List(ctx, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.ListTripsResponse{Trips: make([]api.Trip, len(list))}
	for i, trip := range list {
		resp.Trips[i] = toAPITrip(trip)
	}
	return connect.NewResponse(resp), nil
}

// DeleteTrip deletes a trip and its ledger.
func (s *TripService) DeleteTrip(ctx context.Context, req *connect.Request[api.DeleteTripRequest]) (*connect.Response[api.DeleteTripResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.trips.Delete(ctx, userID, req.Msg.TripID); err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.DeleteTripResponse{}), nil
}

// AddPerson adds someone to the roster. An empty or duplicate name is not an
// error; the response reports Added=false and the roster is unchanged.
func (s *TripService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.AddPersonResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.AddPersonResponse{}
	err = s.trips.Update(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		resp.Added = l.AddPerson(req.Msg.Name)
		resp.People = toAPIPeople(l.People())
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}

	if !resp.Added {
		s.logger.Debug("Person not added", "trip_id", req.Msg.TripID, "name", req.Msg.Name)
	}
	return connect.NewResponse(resp), nil
}

// RemovePerson removes a settled person from the roster.
func (s *TripService) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.RemovePersonResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.RemovePersonResponse{}
	err = s.trips.Update(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		before := len(l.Expenses())
		if err := l.RemovePerson(req.Msg.Name); err != nil {
			return err
		}
		resp.ExpensesDropped = before - len(l.Expenses())
		resp.People = toAPIPeople(l.People())
		return nil
	})
	if err != nil {
		s.metrics.PeopleRemoved.WithLabelValues(removalOutcome(err)).Inc()
		s.logger.Warn("RemovePerson failed", "trip_id", req.Msg.TripID, "name", req.Msg.Name, "error", err)
		return nil, connectError(err)
	}

	s.metrics.PeopleRemoved.WithLabelValues("removed").Inc()
	s.logger.Info("Person removed",
		"trip_id", req.Msg.TripID,
		"name", req.Msg.Name,
		"expenses_dropped", resp.ExpensesDropped,
	)
	return connect.NewResponse(resp), nil
}

func removalOutcome(err error) string {
	switch {
	case errors.Is(err, ledger.ErrPendingBalance):
		return "pending_balance"
	case errors.Is(err, ledger.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// AddExpense parses, validates and commits an expense.
func (s *TripService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("AddExpense request",
		"trip_id", req.Msg.TripID,
		"description", req.Msg.Description,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_shares", req.Msg.SplitShares,
	)

	resp := &api.AddExpenseResponse{}
	err = s.trips.Update(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		amount, err := ledger.ParseAmount("amount", req.Msg.Amount)
		if err != nil {
			return err
		}
		paidBy, err := ledger.ParseShares("paid_by", req.Msg.PaidBy)
		if err != nil {
			return err
		}
		splitShares, err := ledger.ParseShares("split_shares", req.Msg.SplitShares)
		if err != nil {
			return err
		}

		id, err := l.AddExpense(req.Msg.Description, amount, paidBy, splitShares)
		if err != nil {
			return err
		}
		for _, exp := range l.Expenses() {
			if exp.ID == id {
				resp.Expense = toAPIExpense(l, exp)
			}
		}
		return nil
	})
	if err != nil {
		var validation *ledger.ValidationError
		if errors.As(err, &validation) {
			s.metrics.ValidationFailures.WithLabelValues(validation.Field).Inc()
		}
		s.logger.Warn("AddExpense rejected", "trip_id", req.Msg.TripID, "error", err)
		return nil, connectError(err)
	}

	s.metrics.ExpensesAdded.Inc()
	s.logger.Info("Expense added", "trip_id", req.Msg.TripID, "expense_id", resp.Expense.ID, "amount", resp.Expense.Amount)
	return connect.NewResponse(resp), nil
}

// ListExpenses returns every expense in commit order.
func (s *TripService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.ListExpensesResponse{}
	err = s.trips.View(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		expenses := l.Expenses()
		resp.Expenses = make([]api.Expense, len(expenses))
		for i, exp := range expenses {
			resp.Expenses[i] = toAPIExpense(l, exp)
		}
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(resp), nil
}

// GetPersonExpenses returns what a person paid for and what they consumed.
func (s *TripService) GetPersonExpenses(ctx context.Context, req *connect.Request[api.GetPersonExpensesRequest]) (*connect.Response[api.GetPersonExpensesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.GetPersonExpensesResponse{}
	err = s.trips.View(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		inv, err := l.ExpensesInvolving(req.Msg.Name)
		if err != nil {
			return err
		}
		resp.PaidFor = toAPIContributions(l, inv.PaidFor)
		resp.ConsumedIn = toAPIContributions(l, inv.ConsumedIn)
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(resp), nil
}

// GetBalances returns the net position of every active person and the
// transfers that would settle the trip.
func (s *TripService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.GetBalancesResponse{}
	err = s.trips.View(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		balances := calculator.ComputeBalances(l.People(), l.Expenses())
		resp.Balances = toAPIBalances(balances)
		resp.Settled = calculator.IsGroupSettled(balances)
		resp.Transfers = toAPITransfers(calculator.SimplifyDebts(balances))
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(resp), nil
}

// SettleAll clears the expense history of a trip.
func (s *TripService) SettleAll(ctx context.Context, req *connect.Request[api.SettleAllRequest]) (*connect.Response[api.SettleAllResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	resp := &api.SettleAllResponse{}
	err = s.trips.Update(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		resp.Cleared = l.SettleAll()
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}

	s.metrics.ExpensesSettled.Add(float64(resp.Cleared))
	s.logger.Info("Trip settled", "trip_id", req.Msg.TripID, "cleared", resp.Cleared)
	return connect.NewResponse(resp), nil
}

// EvenSplit pre-computes split shares for an amount. It does not change the ledger.
func (s *TripService) EvenSplit(ctx context.Context, req *connect.Request[api.EvenSplitRequest]) (*connect.Response[api.EvenSplitResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := ledger.ParseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.EvenSplitResponse{}
	err = s.trips.View(ctx, userID, req.Msg.TripID, func(l *ledger.Ledger) error {
		names := l.Names()
		if len(req.Msg.Names) > 0 {
			names = make([]string, len(req.Msg.Names))
			for i, name := range req.Msg.Names {
				p, ok := l.Lookup(name)
				if !ok {
					return fmt.Errorf("%w: %q", ledger.ErrNotFound, name)
				}
				names[i] = p.Name
			}
		}

		if req.Msg.AbsorbRemainder {
			shares, err := calculator.FairSplit(amount, names)
			if err != nil {
				return err
			}
			for _, sh := range shares {
				resp.Shares = append(resp.Shares, api.Share{Name: sh.Name, Amount: sh.Amount.StringFixed(2)})
			}
			return nil
		}

		shares, err := calculator.EvenSplit(amount, names)
		if err != nil {
			return err
		}
		for _, name := range names {
			resp.Shares = append(resp.Shares, api.Share{Name: name, Amount: shares[name].StringFixed(2)})
		}
		return nil
	})
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(resp), nil
}
