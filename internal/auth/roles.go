package auth

// Role is the capability tag carried in a user's token. The three dashboards
// of the web client share one permission table instead of parallel per-role
// route trees.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(value), true
	default:
		return "", false
	}
}

type Permission string

const (
	PermManageUsers        Permission = "users:manage"
	PermManageDoctors      Permission = "doctors:manage"
	PermListPatients       Permission = "patients:list"
	PermBookAppointment    Permission = "appointments:book"
	PermListAppointments   Permission = "appointments:list"
	PermSetAppointmentStat Permission = "appointments:set-status"
	PermDeleteAppointment  Permission = "appointments:delete"
	PermWritePrescription  Permission = "prescriptions:write"
	PermListPrescriptions  Permission = "prescriptions:list"
	PermListPayments       Permission = "payments:list"
	PermManagePayments     Permission = "payments:manage"
	PermResolveComplaints  Permission = "complaints:resolve"
	PermListComplaints     Permission = "complaints:list"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleAdmin: {
		PermManageUsers:        true,
		PermManageDoctors:      true,
		PermListPatients:       true,
		PermBookAppointment:    true,
		PermListAppointments:   true,
		PermSetAppointmentStat: true,
		PermDeleteAppointment:  true,
		PermWritePrescription:  true,
		PermListPrescriptions:  true,
		PermListPayments:       true,
		PermManagePayments:     true,
		PermResolveComplaints:  true,
		PermListComplaints:     true,
	},
	RoleDoctor: {
		PermListPatients:       true,
		PermListAppointments:   true,
		PermSetAppointmentStat: true,
		PermWritePrescription:  true,
		PermListPrescriptions:  true,
		PermResolveComplaints:  true,
	},
	RolePatient: {
		PermBookAppointment:   true,
		PermListAppointments:  true,
		PermListPrescriptions: true,
		PermListPayments:      true,
	},
}

func (r Role) Can(p Permission) bool {
	perms, ok := rolePermissions[r]
	if !ok {
		return false
	}
	return perms[p]
}
