package fakeapi

// Route path constants, relative to the API base URL
const (
	// Auth Routes
	RouteAuthLogin     = "/Auth/login"
	RouteAuthVerifyOtp = "/Auth/verify-otp"

	// Vehicle Routes
	RouteVehiclesByClient = "/Vehicle/by-client/status/{id}"
	RouteTicketPDF        = "/tickets/{id}/pdf"

	// Dashboard Routes
	RouteGlobalOccupancy = "/Dashboard/occupancy/global"
	RouteParking         = "/Parking/{id}"

	// Profile Routes
	RouteUser     = "/User"
	RouteUserByID = "/User/{id}"
	RoutePerson   = "/Person"
	RoutePersonID = "/Person/{id}"
)
