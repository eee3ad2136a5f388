package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// AuthServiceClient calls the AuthService over Connect.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient constructs a client for the AuthService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &AuthServiceClient{
		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// TripServiceClient calls the TripService over Connect.
type TripServiceClient struct {
	createTrip        *connect.Client[CreateTripRequest, CreateTripResponse]
	getTrip           *connect.Client[GetTripRequest, GetTripResponse]
	listTrips         *connect.Client[ListTripsRequest, ListTripsResponse]
	deleteTrip        *connect.Client[DeleteTripRequest, DeleteTripResponse]
	addPerson         *connect.Client[AddPersonRequest, AddPersonResponse]
	removePerson      *connect.Client[RemovePersonRequest, RemovePersonResponse]
	addExpense        *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses      *connect.Client[ListExpensesRequest, ListExpensesResponse]
	getPersonExpenses *connect.Client[GetPersonExpensesRequest, GetPersonExpensesResponse]
	getBalances       *connect.Client[GetBalancesRequest, GetBalancesResponse]
	settleAll         *connect.Client[SettleAllRequest, SettleAllResponse]
	evenSplit         *connect.Client[EvenSplitRequest, EvenSplitResponse]
}

// NewTripServiceClient constructs a client for the TripService. Every call
// needs a bearer token in the Authorization header.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &TripServiceClient{
		createTrip:        connect.NewClient[CreateTripRequest, CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		getTrip:           connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:         connect.NewClient[ListTripsRequest, ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		deleteTrip:        connect.NewClient[DeleteTripRequest, DeleteTripResponse](httpClient, baseURL+TripServiceDeleteTripProcedure, opts...),
		addPerson:         connect.NewClient[AddPersonRequest, AddPersonResponse](httpClient, baseURL+TripServiceAddPersonProcedure, opts...),
		removePerson:      connect.NewClient[RemovePersonRequest, RemovePersonResponse](httpClient, baseURL+TripServiceRemovePersonProcedure, opts...),
		addExpense:        connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+TripServiceAddExpenseProcedure, opts...),
		listExpenses:      connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+TripServiceListExpensesProcedure, opts...),
		getPersonExpenses: connect.NewClient[GetPersonExpensesRequest, GetPersonExpensesResponse](httpClient, baseURL+TripServiceGetPersonExpensesProcedure, opts...),
		getBalances:       connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+TripServiceGetBalancesProcedure, opts...),
		settleAll:         connect.NewClient[SettleAllRequest, SettleAllResponse](httpClient, baseURL+TripServiceSettleAllProcedure, opts...),
		evenSplit:         connect.NewClient[EvenSplitRequest, EvenSplitResponse](httpClient, baseURL+TripServiceEvenSplitProcedure, opts...),
	}
}

func (c *TripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) ListTrips(ctx context.Context, req *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *TripServiceClient) DeleteTrip(ctx context.Context, req *connect.Request[DeleteTripRequest]) (*connect.Response[DeleteTripResponse], error) {
	return c.deleteTrip.CallUnary(ctx, req)
}

func (c *TripServiceClient) AddPerson(ctx context.Context, req *connect.Request[AddPersonRequest]) (*connect.Response[AddPersonResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *TripServiceClient) RemovePerson(ctx context.Context, req *connect.Request[RemovePersonRequest]) (*connect.Response[RemovePersonResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *TripServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *TripServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetPersonExpenses(ctx context.Context, req *connect.Request[GetPersonExpensesRequest]) (*connect.Response[GetPersonExpensesResponse], error) {
	return c.getPersonExpenses.CallUnary(ctx, req)
}

func (c *TripServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *TripServiceClient) SettleAll(ctx context.Context, req *connect.Request[SettleAllRequest]) (*connect.Response[SettleAllResponse], error) {
	return c.settleAll.CallUnary(ctx, req)
}

func (c *TripServiceClient) EvenSplit(ctx context.Context, req *connect.Request[EvenSplitRequest]) (*connect.Response[EvenSplitResponse], error) {
	return c.evenSplit.CallUnary(ctx, req)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
