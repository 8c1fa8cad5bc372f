package record

// Field names of a maintenance request record.
const (
	Odometer         = "Odometer"
	Priority         = "Priority"
	ServiceCount     = "service_count"
	AverageInterval  = "average_interval"
	DaysSinceLast    = "days_since_last"
	BuildingEncoded  = "Building_encoded"
	VehicleEncoded   = "Vehicle_encoded"
	StatusEncoded    = "Status_encoded"
	MrTypeEncoded    = "MrType_encoded"
	ResponseDays     = "response_days"
	RequestHour      = "request_hour"
	RequestDayOfWeek = "request_day_of_week"
	RequestMonth     = "request_month"

	Description = "Description"
	Vehicle     = "Vehicle"
	Building    = "Building"
	Status      = "Status"
)

// Placeholder values for absent text fields.
const (
	DefaultDescription = "Vehicle prediction request"
	DefaultVehicle     = "UNKNOWN"
	DefaultBuilding    = "DEFAULT"
)

// Surrogate code ranges for identifiers that arrive without an encoding.
const (
	VehicleCodeRange  = 10000
	BuildingCodeRange = 1000
)

// NumericField declares a numeric record field, its default and the values it
// may take. A nil Valid accepts everything.
type NumericField struct {
	Valid   func(float64) bool
	Name    string
	Default float64
}

func between(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return v >= lo && v <= hi }
}

func nonNegative(v float64) bool { return v >= 0 }

// NumericFields is the fixed set of numeric fields every normalized record
// carries, in declaration order.
var NumericFields = []NumericField{
	{Name: Odometer, Default: 100000, Valid: nonNegative},
	{Name: Priority, Default: 2, Valid: between(1, 4)},
	{Name: ServiceCount, Default: 50},
	{Name: AverageInterval, Default: 5000},
	{Name: DaysSinceLast, Default: 30},
	{Name: BuildingEncoded, Default: 1},
	{Name: VehicleEncoded, Default: 1},
	{Name: StatusEncoded, Default: 2, Valid: between(0, 3)},
	{Name: MrTypeEncoded, Default: 3},
	{Name: ResponseDays, Default: 1},
	{Name: RequestHour, Default: 10},
	{Name: RequestDayOfWeek, Default: 2},
	{Name: RequestMonth, Default: 6},
}

// TextFields lists the text fields every normalized record carries.
var TextFields = map[string]string{
	Description: DefaultDescription,
	Vehicle:     DefaultVehicle,
	Building:    DefaultBuilding,
}
