package engines

import "github.com/ahmetcoskunkizilkaya/jetbench-backend/internal/choices"

type Manufacturer string

const (
	ManufacturerHoneywell       Manufacturer = "hw"
	ManufacturerRollsRoyce      Manufacturer = "rr"
	ManufacturerGeneralElectric Manufacturer = "ge"
	ManufacturerPrattWhitney    Manufacturer = "pw"
	ManufacturerWilliams        Manufacturer = "wl"
	ManufacturerOther           Manufacturer = "ot"
)

var Manufacturers = choices.New(
	choices.Of(ManufacturerHoneywell, "Honeywell"),
	choices.Of(ManufacturerRollsRoyce, "Rolls-Royce"),
	choices.Of(ManufacturerGeneralElectric, "General Electric"),
	choices.Of(ManufacturerPrattWhitney, "Pratt & Whitney"),
	choices.Of(ManufacturerWilliams, "Williams"),
	choices.Of(ManufacturerOther, "Other"),
)

func (m Manufacturer) Valid() bool   { return Manufacturers.Valid(m) }
func (m Manufacturer) Label() string { return Manufacturers.Label(m) }

type Type string

const (
	TypeTurbojet   Type = "tr"
	TypeTurbofan   Type = "tf"
	TypeTurboprop  Type = "tp"
	TypeTurboshaft Type = "ts"
	TypeOther      Type = "ot"
)

var Types = choices.New(
	choices.Of(TypeTurbojet, "Turbojet"),
	choices.Of(TypeTurbofan, "Turbofan"),
	choices.Of(TypeTurboprop, "Turboprop"),
	choices.Of(TypeTurboshaft, "Turboshaft"),
	choices.Of(TypeOther, "Other"),
)

func (t Type) Valid() bool   { return Types.Valid(t) }
func (t Type) Label() string { return Types.Label(t) }
