package api

// Amounts are decimal strings on the wire ("12.50"). Input amounts are parsed
// strictly: a value that is not a number rejects the whole request.

// User is the public view of an account.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// Trip is a named ledger.
type Trip struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Person is an active member of a trip.
type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Share is one person's part of an expense.
type Share struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`

	// Departed is set when the person has since left the trip.
	Departed bool `json:"departed,omitempty"`
}

// Expense is a committed expense with names resolved.
type Expense struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	PaidBy      []Share `json:"paid_by"`
	SplitShares []Share `json:"split_shares"`
	CreatedAt   int64   `json:"created_at"`
}

// Contribution is an expense together with one person's amount in it.
type Contribution struct {
	Expense Expense `json:"expense"`
	Amount  string  `json:"amount"`
}

// Balance is the position of one active person.
type Balance struct {
	Name    string `json:"name"`
	Paid    string `json:"paid"`
	Owed    string `json:"owed"`
	Net     string `json:"net"`
	Settled bool   `json:"settled"`
}

// Transfer is one suggested payment.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type CreateTripRequest struct {
	Name string `json:"name"`
}

type CreateTripResponse struct {
	Trip Trip `json:"trip"`
}

type GetTripRequest struct {
	TripID string `json:"trip_id"`
}

type GetTripResponse struct {
	Trip         Trip     `json:"trip"`
	People       []Person `json:"people"`
	ExpenseCount int      `json:"expense_count"`
}

type ListTripsRequest struct{}

type ListTripsResponse struct {
	Trips []Trip `json:"trips"`
}

type DeleteTripRequest struct {
	TripID string `json:"trip_id"`
}

type DeleteTripResponse struct{}

type AddPersonRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

// AddPersonResponse reports Added=false for an empty or duplicate name.
type AddPersonResponse struct {
	Added  bool     `json:"added"`
	People []Person `json:"people"`
}

type RemovePersonRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

type RemovePersonResponse struct {
	People []Person `json:"people"`

	// ExpensesDropped counts expenses that involved only the removed person.
	ExpensesDropped int `json:"expenses_dropped"`
}

type AddExpenseRequest struct {
	TripID      string            `json:"trip_id"`
	Description string            `json:"description"`
	Amount      string            `json:"amount"`
	PaidBy      map[string]string `json:"paid_by"`
	SplitShares map[string]string `json:"split_shares"`
}

type AddExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type ListExpensesRequest struct {
	TripID string `json:"trip_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetPersonExpensesRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

type GetPersonExpensesResponse struct {
	PaidFor    []Contribution `json:"paid_for"`
	ConsumedIn []Contribution `json:"consumed_in"`
}

type GetBalancesRequest struct {
	TripID string `json:"trip_id"`
}

type GetBalancesResponse struct {
	Balances  []Balance  `json:"balances"`
	Settled   bool       `json:"settled"`
	Transfers []Transfer `json:"transfers"`
}

type SettleAllRequest struct {
	TripID string `json:"trip_id"`
}

type SettleAllResponse struct {
	Cleared int `json:"cleared"`
}

// EvenSplitRequest asks for pre-filled split shares. Names defaults to the
// whole active roster. With AbsorbRemainder the last name takes the rounding
// remainder so the shares add up to Amount exactly.
type EvenSplitRequest struct {
	TripID          string   `json:"trip_id"`
	Amount          string   `json:"amount"`
	Names           []string `json:"names,omitempty"`
	AbsorbRemainder bool     `json:"absorb_remainder"`
}

type EvenSplitResponse struct {
	Shares []Share `json:"shares"`
}
