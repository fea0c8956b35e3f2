package finance

import "github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"

type ExpenseType string

const (
	ExpenseFBO         ExpenseType = "FBO"
	ExpenseFuel        ExpenseType = "FUEL"
	ExpenseHotel       ExpenseType = "HOTEL"
	ExpenseMaintenance ExpenseType = "MAINTENANCE"
	ExpenseMeal        ExpenseType = "MEAL"
	ExpenseParking     ExpenseType = "PARKING"
	ExpenseTaxi        ExpenseType = "TAXI"
	ExpenseOther       ExpenseType = "OTHER"
)

var ExpenseTypes = choices.New(
	choices.Of(ExpenseFBO, "FBO"),
	choices.Of(ExpenseFuel, "Fuel"),
	choices.Of(ExpenseHotel, "Hotel"),
	choices.Of(ExpenseMaintenance, "Maintenance"),
	choices.Of(ExpenseMeal, "Meal"),
	choices.Of(ExpenseParking, "Parking"),
	choices.Of(ExpenseTaxi, "Taxi"),
	choices.Of(ExpenseOther, "Other"),
)

func (t ExpenseType) Valid() bool   { return ExpenseTypes.Valid(t) }
func (t ExpenseType) Label() string { return ExpenseTypes.Label(t) }

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "CASH"
	PaymentCheck      PaymentMethod = "CHECK"
	PaymentCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentTransfer   PaymentMethod = "TRANSFER"
	PaymentZelle      PaymentMethod = "ZELLE"
	PaymentOther      PaymentMethod = "OTHER"
)

var PaymentMethods = choices.New(
	choices.Of(PaymentCash, "Cash"),
	choices.Of(PaymentCheck, "Check"),
	choices.Of(PaymentCreditCard, "Credit Card"),
	choices.Of(PaymentDebitCard, "Debit Card"),
	choices.Of(PaymentTransfer, "Transfer"),
	choices.Of(PaymentZelle, "Zelle"),
	choices.Of(PaymentOther, "Other"),
)

func (m PaymentMethod) Valid() bool   { return PaymentMethods.Valid(m) }
func (m PaymentMethod) Label() string { return PaymentMethods.Label(m) }

type FuelType string

const (
	FuelJetA  FuelType = "JET_A"
	FuelJetA1 FuelType = "JET_A1"
	FuelJetB  FuelType = "JET_B"
	FuelAvgas FuelType = "AVGAS"
)

var FuelTypes = choices.New(
	choices.Of(FuelJetA, "Jet A"),
	choices.Of(FuelJetA1, "Jet A-1"),
	choices.Of(FuelJetB, "Jet B"),
	choices.Of(FuelAvgas, "Avgas"),
)

func (t FuelType) Valid() bool   { return FuelTypes.Valid(t) }
func (t FuelType) Label() string { return FuelTypes.Label(t) }

type FuelUnits string

const (
	UnitsLiters    FuelUnits = "L"
	UnitsGallons   FuelUnits = "GAL"
	UnitsKilograms FuelUnits = "KG"
	UnitsPounds    FuelUnits = "LB"
)

var FuelUnitChoices = choices.New(
	choices.Of(UnitsLiters, "Liters"),
	choices.Of(UnitsGallons, "Gallons"),
	choices.Of(UnitsKilograms, "Kilograms"),
	choices.Of(UnitsPounds, "Pounds"),
)

func (u FuelUnits) Valid() bool   { return FuelUnitChoices.Valid(u) }
func (u FuelUnits) Label() string { return FuelUnitChoices.Label(u) }
