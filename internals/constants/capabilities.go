package constants

import "sort"

// Capability adalah aksi yang diizinkan per endpoint. Role → set capability.
type Capability string

const (
	CapCandidatesView         Capability = "candidates.view"
	CapCandidatesUpdateStatus Capability = "candidates.update_status"
	CapCandidatesReassign     Capability = "candidates.reassign"
	CapInteractionsLog        Capability = "interactions.log"
	CapSuggestionsWrite       Capability = "suggestions.write"
	CapDocumentsView          Capability = "documents.view"
	CapDocumentsReview        Capability = "documents.review"
	CapReferralClaimsResolve  Capability = "referral_claims.resolve"
	CapCommissionsView        Capability = "commissions.view"
	CapCommissionsApprove     Capability = "commissions.approve"
	CapCommissionsPay         Capability = "commissions.pay"
	CapCommissionsExport      Capability = "commissions.export"
	CapBillingsManage         Capability = "billings.manage"
	CapSettingsManage         Capability = "settings.manage"
	CapAssignmentManage       Capability = "assignment.manage"
	CapReportsView            Capability = "reports.view"
	CapAnnouncementsManage    Capability = "announcements.manage"
)

func caps(list ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(list))
	for _, c := range list {
		m[c] = struct{}{}
	}
	return m
}

var roleCapabilities = map[string]map[Capability]struct{}{
	RoleAdmin: caps(
		CapCandidatesView, CapCandidatesUpdateStatus, CapCandidatesReassign,
		CapInteractionsLog, CapSuggestionsWrite,
		CapDocumentsView, CapDocumentsReview,
		CapReferralClaimsResolve,
		CapCommissionsView, CapCommissionsApprove, CapCommissionsPay, CapCommissionsExport,
		CapBillingsManage, CapSettingsManage, CapAssignmentManage,
		CapReportsView, CapAnnouncementsManage,
	),
	RoleSupervisor: caps(
		CapCandidatesView, CapCandidatesUpdateStatus, CapCandidatesReassign,
		CapInteractionsLog, CapSuggestionsWrite,
		CapDocumentsView, CapDocumentsReview,
		CapReportsView,
	),
	RoleConsultant: caps(
		CapCandidatesView, CapCandidatesUpdateStatus,
		CapInteractionsLog,
		CapDocumentsView,
	),
	RoleFinance: caps(
		CapCommissionsView, CapCommissionsPay, CapCommissionsExport,
		CapBillingsManage,
	),
}

// Can: apakah role punya capability tsb. Role tak dikenal → false.
func Can(role string, c Capability) bool {
	set, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = set[c]
	return ok
}

// CapabilitiesOf: daftar capability role (urut abjad), untuk menu FE.
func CapabilitiesOf(role string) []Capability {
	set := roleCapabilities[role]
	out := make([]Capability, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
