package aircraft

import "github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"

type Manufacturer string

const (
	ManufacturerCessna     Manufacturer = "CS"
	ManufacturerPiper      Manufacturer = "PA"
	ManufacturerBeechcraft Manufacturer = "BC"
	ManufacturerBombardier Manufacturer = "BD"
	ManufacturerDaher      Manufacturer = "DH"
	ManufacturerDassault   Manufacturer = "DS"
	ManufacturerEmbraer    Manufacturer = "EB"
	ManufacturerGulfstream Manufacturer = "GS"
	ManufacturerPilatus    Manufacturer = "PL"
	ManufacturerTextron    Manufacturer = "TX"
	ManufacturerOther      Manufacturer = "OT"
)

var Manufacturers = choices.New(
	choices.Of(ManufacturerCessna, "Cessna Aircraft"),
	choices.Of(ManufacturerPiper, "Piper Aircraft"),
	choices.Of(ManufacturerBeechcraft, "Beechcraft Aircraft"),
	choices.Of(ManufacturerBombardier, "Bombardier"),
	choices.Of(ManufacturerDaher, "Daher"),
	choices.Of(ManufacturerDassault, "Dassault Aviation"),
	choices.Of(ManufacturerEmbraer, "Embraer"),
	choices.Of(ManufacturerGulfstream, "Gulfstream Aerospace"),
	choices.Of(ManufacturerPilatus, "Pilatus Aircraft"),
	choices.Of(ManufacturerTextron, "Textron Aviation"),
	choices.Of(ManufacturerOther, "Other"),
)

func (m Manufacturer) Valid() bool   { return Manufacturers.Valid(m) }
func (m Manufacturer) Label() string { return Manufacturers.Label(m) }

type Type string

const (
	TypeSingleTurboprop Type = "ST"
	TypeTwinTurboprop   Type = "TT"
	TypeSingleJet       Type = "SJ"
	TypeTwinJet         Type = "TJ"
	TypeThreeJet        Type = "JJ"
	TypeOther           Type = "OT"
)

var Types = choices.New(
	choices.Of(TypeSingleTurboprop, "Single Engine Turboprop"),
	choices.Of(TypeTwinTurboprop, "Twin Engine Turboprop"),
	choices.Of(TypeSingleJet, "Single Engine Jet"),
	choices.Of(TypeTwinJet, "Twin Engine Jet"),
	choices.Of(TypeThreeJet, "Three Engine Jet"),
	choices.Of(TypeOther, "Other"),
)

func (t Type) Valid() bool   { return Types.Valid(t) }
func (t Type) Label() string { return Types.Label(t) }

type FuelFlowUnit string

const (
	FuelFlowKgPerHour FuelFlowUnit = "KPH"
	FuelFlowLbPerHour FuelFlowUnit = "LPH"
)

var FuelFlowUnits = choices.New(
	choices.Of(FuelFlowKgPerHour, "kg/h"),
	choices.Of(FuelFlowLbPerHour, "lb/h"),
)

func (u FuelFlowUnit) Valid() bool   { return FuelFlowUnits.Valid(u) }
func (u FuelFlowUnit) Label() string { return FuelFlowUnits.Label(u) }
