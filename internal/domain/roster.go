package domain

// Driver is a roster entry. The scheduler reads drivers but never writes them.
type Driver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Vehicle is a roster entry. The scheduler reads vehicles but never writes them.
type Vehicle struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	PlateNo string `json:"plate_no"`
}

// DefaultDrivers and DefaultVehicles seed a fresh installation and the
// in-memory roster.
var (
	DefaultDrivers = []Driver{
		{ID: "d1", Name: "Juan Dela Cruz"},
		{ID: "d2", Name: "Maria Santos"},
		{ID: "d3", Name: "Roberto Reyes"},
	}
	DefaultVehicles = []Vehicle{
		{ID: "v1", Label: "Toyota HiAce", PlateNo: "ABC-1234"},
		{ID: "v2", Label: "Hyundai County", PlateNo: "XYZ-5678"},
		{ID: "v3", Label: "Mitsubishi L300", PlateNo: "MSE-2025"},
	}
)
