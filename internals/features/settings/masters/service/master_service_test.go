package service

import (
	"errors"
	"testing"
	"time"

	"pmb_backend/internals/features/settings/masters/dto"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var page = helper.Params{Page: 1, PerPage: 20}

func ptr[T any](v T) *T { return &v }

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var fe *helper.FieldError
	require.True(t, errors.As(err, &fe), "error %v bukan FieldError", err)
	return fe.Field
}

func TestProgramCRUDAndToggle(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewMasterService(db)

	ti, err := svc.CreateProgram(dto.ProgramRequest{Code: " ti ", Name: "Teknik Informatika", Degree: ptr("S1"), Faculty: ptr("  ")})
	require.NoError(t, err)
	assert.Equal(t, "TI", ti.ProgramCode)
	assert.True(t, ti.ProgramIsActive)
	assert.Nil(t, ti.ProgramFaculty)

	_, err = svc.CreateProgram(dto.ProgramRequest{Code: "TI", Name: "Duplikat"})
	assert.ErrorIs(t, err, ErrProgramCodeTaken)

	_, err = svc.CreateProgram(dto.ProgramRequest{Code: "SI", Name: "Sistem Informasi", IsActive: ptr(false)})
	require.NoError(t, err)

	upd, err := svc.UpdateProgram(ti.ProgramID, dto.ProgramRequest{Code: "TI", Name: "Informatika", Quota: ptr(120)})
	require.NoError(t, err)
	assert.Equal(t, "Informatika", upd.ProgramName)
	assert.True(t, upd.ProgramIsActive, "flag yang tidak dikirim tidak berubah")

	rows, total, err := svc.ListPrograms(ListFilter{IsActive: ptr(true)}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, ti.ProgramID, rows[0].ProgramID)

	_, total, err = svc.ListPrograms(ListFilter{Search: "SISTEM"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	off, err := svc.ToggleProgram(ti.ProgramID)
	require.NoError(t, err)
	assert.False(t, off.ProgramIsActive)
	active, err := svc.ActivePrograms()
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.ToggleProgram(uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFeeValidationAndProgramName(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewMasterService(db)
	prog, err := svc.CreateProgram(dto.ProgramRequest{Code: "TI", Name: "Teknik Informatika"})
	require.NoError(t, err)

	_, err = svc.CreateFee(dto.FeeRequest{Name: "SPP", BillingType: "tuition", Amount: 1, AcademicYear: ptr("2026/2028")})
	assert.Equal(t, "fee_academic_year", fieldOf(t, err))

	_, err = svc.CreateFee(dto.FeeRequest{Name: "SPP", BillingType: "tuition", Amount: 1, ProgramID: ptr(uuid.NewString())})
	assert.ErrorIs(t, err, ErrUnknownProgram)

	row, err := svc.CreateFee(dto.FeeRequest{
		Name: "SPP TI", BillingType: "tuition", Amount: 6000000,
		ProgramID: ptr(prog.ProgramID.String()), AcademicYear: ptr("2026/2027"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Biaya Kuliah", row.BillingTypeLabel)
	require.NotNil(t, row.ProgramName)
	assert.Equal(t, "Teknik Informatika", *row.ProgramName)

	_, err = svc.CreateFee(dto.FeeRequest{Name: "Registrasi", BillingType: "registration", Amount: 250000})
	require.NoError(t, err)

	rows, total, err := svc.ListFees(FeeFilter{ProgramID: &prog.ProgramID}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, row.FeeID, rows[0].FeeID)

	upd, err := svc.UpdateFee(row.FeeID, dto.FeeRequest{Name: "SPP umum", BillingType: "tuition", Amount: 5000000})
	require.NoError(t, err)
	assert.Nil(t, upd.FeeProgramID)
	assert.Nil(t, upd.ProgramName)

	toggled, err := svc.ToggleFee(row.FeeID)
	require.NoError(t, err)
	assert.False(t, toggled.FeeIsActive)
}

func TestCampaignWindowAndCounts(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewMasterService(db)
	svc.Now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }

	_, err := svc.CreateCampaign(dto.CampaignRequest{Name: "Expo", Type: "event", StartDate: "2026-03-10", EndDate: "2026-03-01"})
	assert.Equal(t, "campaign_end_date", fieldOf(t, err))
	_, err = svc.CreateCampaign(dto.CampaignRequest{Name: "Expo", Type: "event", StartDate: "10/03/2026"})
	assert.Equal(t, "campaign_start_date", fieldOf(t, err))

	expo, err := svc.CreateCampaign(dto.CampaignRequest{
		Name: "Expo Kampus", Type: "event", Channel: ptr(" Expo "),
		StartDate: "2026-03-01", EndDate: "2026-03-31", Budget: 2000000,
	})
	require.NoError(t, err)
	assert.True(t, expo.Running)
	require.NotNil(t, expo.CampaignChannel)
	assert.Equal(t, "expo", *expo.CampaignChannel)

	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	require.NoError(t, db.Model(&cand).Update("candidate_campaign_id", expo.CampaignID).Error)

	rows, total, err := svc.ListCampaigns(CampaignFilter{Type: "event"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.EqualValues(t, 1, rows[0].Candidates)

	off, err := svc.ToggleCampaign(expo.CampaignID)
	require.NoError(t, err)
	assert.False(t, off.Running)

	upd, err := svc.UpdateCampaign(expo.CampaignID, dto.CampaignRequest{Name: "Expo Kampus", Type: "event", Budget: 1, FeeOverride: ptr(int64(150000))})
	require.NoError(t, err)
	assert.False(t, upd.CampaignIsActive)
	assert.Nil(t, upd.CampaignStartDate)
	require.NotNil(t, upd.CampaignFeeOverride)
	assert.EqualValues(t, 150000, *upd.CampaignFeeOverride)
}

func TestLookupsSortAndUniqueName(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewMasterService(db)

	a, err := svc.CreateCategory(dto.LookupRequest{Name: "  Tertarik   daftar "})
	require.NoError(t, err)
	assert.Equal(t, "Tertarik daftar", a.CategoryName)
	assert.Equal(t, 1, a.CategorySortOrder)
	b, err := svc.CreateCategory(dto.LookupRequest{Name: "Minta info biaya"})
	require.NoError(t, err)
	assert.Equal(t, 2, b.CategorySortOrder)

	_, err = svc.CreateCategory(dto.LookupRequest{Name: "Minta info biaya"})
	assert.ErrorIs(t, err, ErrNameTaken)

	_, err = svc.UpdateCategory(b.CategoryID, dto.LookupRequest{Name: "Minta info biaya", SortOrder: ptr(0)})
	require.NoError(t, err)
	rows, err := svc.ListCategories(nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b.CategoryID, rows[0].CategoryID)

	_, err = svc.ToggleCategory(a.CategoryID)
	require.NoError(t, err)
	rows, err = svc.ListCategories(ptr(true))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	r, err := svc.CreateLostReason(dto.LookupRequest{Name: "Diterima di kampus lain"})
	require.NoError(t, err)
	assert.True(t, r.LostReasonIsActive)
	r2, err := svc.UpdateLostReason(r.LostReasonID, dto.LookupRequest{Name: "Kampus lain", IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, r2.LostReasonIsActive)
	r3, err := svc.ToggleLostReason(r.LostReasonID)
	require.NoError(t, err)
	assert.True(t, r3.LostReasonIsActive)
	list, err := svc.ListLostReasons(ptr(true))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kampus lain", list[0].LostReasonName)
}
