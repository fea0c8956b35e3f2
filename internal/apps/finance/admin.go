package finance

import (
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/admin"
	"github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/apps/aircraft"
)

var systemInformation = admin.Fieldset{
	Name:    "System Information",
	Fields:  []string{"created_at", "updated_at"},
	Classes: []string{"collapse"},
}

func (p *Plugin) RegisterAdmin(site *admin.Site) {
	admin.Register(site, p.expenses, expenseAdmin())
	admin.Register(site, p.fuel, fuelAdmin())
}

func joinsFor(table string) []string {
	return []string{
		"JOIN flights ON flights.id = " + table + ".flight_id",
		aircraft.JoinFlightAircraft,
	}
}

func registrationFilter() admin.Filter {
	return admin.Filter{
		Param: "flight__aircraft__registration", Column: "aircraft.registration", Label: "Registration",
		Kind: admin.FilterExact, Lookup: admin.Distinct("aircraft", "registration"),
	}
}

func flightDateFilter() admin.Filter {
	return admin.Filter{
		Param: "flight__flight_date", Column: "flights.flight_date", Label: "Flight Date", Kind: admin.FilterDate,
	}
}

func expenseAdmin() admin.Options[FlightExpense] {
	return admin.Options[FlightExpense]{
		App:               "finance",
		Model:             "flightexpense",
		Slug:              "flight-expenses",
		VerboseName:       "flight expense",
		VerboseNamePlural: "flight expenses",
		Columns: []admin.Column[FlightExpense]{
			{Name: "flight", Label: "Flight", Order: "flights.flight_date",
				Value: func(e *FlightExpense) interface{} { return aircraft.FlightRepr(e.Flight) }},
			{Name: "expense_type", Label: "Expense Type", Order: "flight_expenses.expense_type",
				Value: func(e *FlightExpense) interface{} { return e.ExpenseType.Label() }},
			{Name: "expense_amount", Label: "Expense Amount (USD)", Order: "flight_expenses.expense_amount",
				Value: func(e *FlightExpense) interface{} { return e.ExpenseAmount }},
			{Name: "payment_method", Label: "Payment Method", Order: "flight_expenses.payment_method",
				Value: func(e *FlightExpense) interface{} { return e.PaymentMethod.Label() }},
			{Name: "created_at", Label: "Created At", Order: "flight_expenses.created_at",
				Value: func(e *FlightExpense) interface{} { return e.CreatedAt }},
		},
		Joins:  joinsFor("flight_expenses"),
		Search: append(append([]string{}, aircraft.FlightSearch...), "flight_expenses.notes"),
		Filters: []admin.Filter{
			{Param: "expense_type", Column: "flight_expenses.expense_type", Label: "Expense Type",
				Kind: admin.FilterChoice, Choices: ExpenseTypes.Options()},
			{Param: "payment_method", Column: "flight_expenses.payment_method", Label: "Payment Method",
				Kind: admin.FilterChoice, Choices: PaymentMethods.Options()},
			registrationFilter(),
			flightDateFilter(),
		},
		DateHierarchy: "flights.flight_date",
		Ordering:      []string{"-flights.flight_date"},
		Fieldsets: []admin.Fieldset{
			{Name: "Flight Information", Fields: []string{"flight_id"}},
			{Name: "Expense Details", Fields: []string{"expense_type", "expense_amount", "payment_method"}},
			{Name: "Additional Information", Fields: []string{"notes"}, Classes: []string{"collapse"}},
			systemInformation,
		},
		Readonly: []string{"flight"},
	}
}

func fuelAdmin() admin.Options[FuelPaid] {
	return admin.Options[FuelPaid]{
		App:               "finance",
		Model:             "fuelpaid",
		Slug:              "fuel-paid",
		VerboseName:       "fuel paid",
		VerboseNamePlural: "fuel paid",
		Columns: []admin.Column[FuelPaid]{
			{Name: "flight", Label: "Flight", Order: "flights.flight_date",
				Value: func(f *FuelPaid) interface{} { return aircraft.FlightRepr(f.Flight) }},
			{Name: "fuel_type", Label: "Type", Order: "fuel_paid.fuel_type",
				Value: func(f *FuelPaid) interface{} { return f.FuelType.Label() }},
			{Name: "fuel_units", Label: "Units", Order: "fuel_paid.fuel_units",
				Value: func(f *FuelPaid) interface{} { return f.FuelUnits.Label() }},
			{Name: "fuel_quantity", Label: "Quantity", Order: "fuel_paid.fuel_quantity",
				Value: func(f *FuelPaid) interface{} { return f.FuelQuantity }},
			{Name: "amount_paid", Label: "Amount Paid (USD)", Order: "fuel_paid.amount_paid",
				Value: func(f *FuelPaid) interface{} { return f.AmountPaid }},
			{Name: "created_at", Label: "Created At", Order: "fuel_paid.created_at",
				Value: func(f *FuelPaid) interface{} { return f.CreatedAt }},
		},
		Joins:  joinsFor("fuel_paid"),
		Search: []string{"aircraft.registration", "flights.departure_airport", "flights.arrival_airport"},
		Filters: []admin.Filter{
			{Param: "fuel_type", Column: "fuel_paid.fuel_type", Label: "Type",
				Kind: admin.FilterChoice, Choices: FuelTypes.Options()},
			{Param: "fuel_units", Column: "fuel_paid.fuel_units", Label: "Units",
				Kind: admin.FilterChoice, Choices: FuelUnitChoices.Options()},
			registrationFilter(),
			flightDateFilter(),
		},
		DateHierarchy: "flights.flight_date",
		Ordering:      []string{"-flights.flight_date"},
		Fieldsets: []admin.Fieldset{
			{Name: "Flight Information", Fields: []string{"flight_id"}},
			{Name: "Fuel Details", Fields: []string{"fuel_type", "fuel_units", "fuel_quantity", "amount_paid"}},
			systemInformation,
		},
		Readonly: []string{"flight"},
	}
}
