package api

const (
	// AuthServiceName is the fully-qualified name of the AuthService service.
	AuthServiceName = "tripsplitter.v1.AuthService"
	// TripServiceName is the fully-qualified name of the TripService service.
	TripServiceName = "tripsplitter.v1.TripService"
)

// Procedure paths, in the form "/<service>/<method>".
const (
	AuthServiceRegisterProcedure       = "/tripsplitter.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/tripsplitter.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/tripsplitter.v1.AuthService/GetCurrentUser"

	TripServiceCreateTripProcedure        = "/tripsplitter.v1.TripService/CreateTrip"
	TripServiceGetTripProcedure           = "/tripsplitter.v1.TripService/GetTrip"
	TripServiceListTripsProcedure         = "/tripsplitter.v1.TripService/ListTrips"
	TripServiceDeleteTripProcedure        = "/tripsplitter.v1.TripService/DeleteTrip"
	TripServiceAddPersonProcedure         = "/tripsplitter.v1.TripService/AddPerson"
	TripServiceRemovePersonProcedure      = "/tripsplitter.v1.TripService/RemovePerson"
	TripServiceAddExpenseProcedure        = "/tripsplitter.v1.TripService/AddExpense"
	TripServiceListExpensesProcedure      = "/tripsplitter.v1.TripService/ListExpenses"
	TripServiceGetPersonExpensesProcedure = "/tripsplitter.v1.TripService/GetPersonExpenses"
	TripServiceGetBalancesProcedure       = "/tripsplitter.v1.TripService/GetBalances"
	TripServiceSettleAllProcedure         = "/tripsplitter.v1.TripService/SettleAll"
	TripServiceEvenSplitProcedure         = "/tripsplitter.v1.TripService/EvenSplit"
)
