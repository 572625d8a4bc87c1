package service

import (
	"errors"
	"testing"

	"pmb_backend/internals/features/referrals/referrers/dto"
	"pmb_backend/internals/features/referrals/referrers/model"
	helper "pmb_backend/internals/helpers"
	"pmb_backend/internals/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCreateReferrerPayoutRules(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewReferrerService(db)

	_, err := svc.Create(db, dto.ReferrerRequest{Name: "Bu Ani", Type: model.TypeTeacher, PayoutMethod: model.PayoutBank})
	var fe *helper.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "referrer_bank_name", fe.Field)

	cash, err := svc.Create(db, dto.ReferrerRequest{
		Name: " Bu Ani ", Type: model.TypeTeacher, PayoutMethod: model.PayoutCash,
		BankName: strp("BRI"), Code: strp(" guru01 "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bu Ani", cash.ReferrerName)
	assert.Nil(t, cash.ReferrerBankName)
	assert.Equal(t, "GURU01", *cash.ReferrerCode)
	assert.True(t, cash.ReferrerIsActive)

	_, err = svc.Create(db, dto.ReferrerRequest{Name: "Lain", Type: model.TypeAlumni, PayoutMethod: model.PayoutCash, Code: strp("GURU01")})
	assert.ErrorIs(t, err, ErrCodeTaken)

	found, err := FindActiveByCode(db, "guru01")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, cash.ReferrerID, found.ReferrerID)

	_, err = svc.Toggle(cash.ReferrerID)
	require.NoError(t, err)
	found, err = FindActiveByCode(db, "GURU01")
	require.NoError(t, err)
	assert.Nil(t, found, "referrer nonaktif tidak bisa dipakai")
}

func TestListAndUpdateReferrer(t *testing.T) {
	db := testkit.NewDB(t)
	svc := NewReferrerService(db)
	r, err := svc.Create(db, dto.ReferrerRequest{Name: "Mitra Bimbel", Type: model.TypePartner, PayoutMethod: model.PayoutCash})
	require.NoError(t, err)
	_, err = svc.Create(db, dto.ReferrerRequest{Name: "Alumni Budi", Type: model.TypeAlumni, PayoutMethod: model.PayoutCash})
	require.NoError(t, err)

	p := helper.Params{Page: 1, PerPage: 10}
	rows, total, err := svc.List(ListFilter{Search: "bimbel"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)

	upd, err := svc.Update(r.ReferrerID, dto.ReferrerRequest{
		Name: "Mitra Bimbel Baru", Type: model.TypePartner, PayoutMethod: model.PayoutBank,
		BankName: strp("BCA"), BankAccountNumber: strp("123"), BankAccountName: strp("PT Mitra"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mitra Bimbel Baru", upd.ReferrerName)

	got, err := svc.Get(r.ReferrerID)
	require.NoError(t, err)
	assert.Equal(t, "BCA", *got.ReferrerBankName)
	assert.True(t, got.ReferrerIsActive)
}
