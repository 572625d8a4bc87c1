package constants

import "fmt"

// Role staff
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleConsultant = "consultant"
	RoleFinance    = "finance"
)

// Jenis principal di token
const (
	KindStaff     = "staff"
	KindCandidate = "candidate"
)

// Template pesan error role
const (
	ErrForbiddenFeature = "❌ Role %s tidak boleh mengakses fitur %s."
	ErrOnlyCandidate    = "❌ Fitur ini hanya untuk kandidat."
	ErrOnlyStaff        = "❌ Fitur ini hanya untuk staf PMB."
)

func RoleErrorForbidden(role, feature string) string {
	return fmt.Sprintf(ErrForbiddenFeature, role, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleSupervisor,
		RoleConsultant,
		RoleFinance,
	}

	// Role yang boleh memberi saran ke konsultan / mengalihkan kandidat
	SupervisorAndAbove = []string{
		RoleAdmin,
		RoleSupervisor,
	}
)

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
