package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// AuthServiceHandler is implemented by the account service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// TripServiceHandler is implemented by the trip ledger service.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	DeleteTrip(context.Context, *connect.Request[DeleteTripRequest]) (*connect.Response[DeleteTripResponse], error)
	AddPerson(context.Context, *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error)
	RemovePerson(context.Context, *connect.Request[RemovePersonRequest]) (*connect.Response[RemovePersonResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	GetPersonExpenses(context.Context, *connect.Request[GetPersonExpensesRequest]) (*connect.Response[GetPersonExpensesResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleAll(context.Context, *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error)
	EvenSplit(context.Context, *connect.Request[EvenSplitRequest]) (*connect.Response[EvenSplitResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + AuthServiceName + "/", routes(map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	})
}

// NewTripServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + TripServiceName + "/", routes(map[string]http.Handler{
		TripServiceCreateTripProcedure:        connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...),
		TripServiceGetTripProcedure:           connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...),
		TripServiceListTripsProcedure:         connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...),
		TripServiceDeleteTripProcedure:        connect.NewUnaryHandler(TripServiceDeleteTripProcedure, svc.DeleteTrip, opts...),
		TripServiceAddPersonProcedure:         connect.NewUnaryHandler(TripServiceAddPersonProcedure, svc.AddPerson, opts...),
		TripServiceRemovePersonProcedure:      connect.NewUnaryHandler(TripServiceRemovePersonProcedure, svc.RemovePerson, opts...),
		TripServiceAddExpenseProcedure:        connect.NewUnaryHandler(TripServiceAddExpenseProcedure, svc.AddExpense, opts...),
		TripServiceListExpensesProcedure:      connect.NewUnaryHandler(TripServiceListExpensesProcedure, svc.ListExpenses, opts...),
		TripServiceGetPersonExpensesProcedure: connect.NewUnaryHandler(TripServiceGetPersonExpensesProcedure, svc.GetPersonExpenses, opts...),
		TripServiceGetBalancesProcedure:       connect.NewUnaryHandler(TripServiceGetBalancesProcedure, svc.GetBalances, opts...),
		TripServiceSettleAllProcedure:         connect.NewUnaryHandler(TripServiceSettleAllProcedure, svc.SettleAll, opts...),
		TripServiceEvenSplitProcedure:         connect.NewUnaryHandler(TripServiceEvenSplitProcedure, svc.EvenSplit, opts...),
	})
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func routes(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
