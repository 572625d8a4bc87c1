package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"pmb_backend/internals/constants"
	"pmb_backend/internals/features/candidates/candidates/repository"
	"pmb_backend/internals/features/candidates/documents/dto"
	"pmb_backend/internals/features/candidates/documents/model"
	userModel "pmb_backend/internals/features/users/user/model"
	helper "pmb_backend/internals/helpers"
	oss "pmb_backend/internals/helpers/oss"
	"pmb_backend/internals/testkit"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 20), B: uint8(y * 20), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func asViewer(u userModel.UserModel) repository.Viewer {
	return repository.Viewer{UserID: u.UserID, Role: u.UserRole}
}

func statusCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func TestSlotsBeforeUpload(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	svc := NewDocumentService(db, oss.NewMemoryBlobService())

	slots, err := svc.Slots(cand.CandidateID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "ktp", slots[0].TypeCode)
	for _, s := range slots {
		assert.Equal(t, model.DocNotUploaded, s.Status)
		assert.Equal(t, "Belum Diunggah", s.StatusLabel)
		assert.Equal(t, "Maksimal 5MB", s.SizeHint)
		assert.Equal(t, "Format: PDF, JPG, PNG", s.FormatHint)
		assert.True(t, strings.Contains(s.Accept, "application/pdf"), s.Accept)
		assert.Nil(t, s.DocumentID)
	}
	assert.True(t, slots[2].CanDefer)
}

func TestUploadPDFGoesPending(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	blob := oss.NewMemoryBlobService()
	svc := NewDocumentService(db, blob)

	doc, err := svc.Upload(context.Background(), cand.CandidateID, "ktp", "../ktp rina.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, model.DocPending, doc.DocumentStatus)
	assert.Equal(t, constants.MimePDF, doc.DocumentMimeType)
	assert.Equal(t, "ktp rina.pdf", doc.DocumentFileName)
	assert.True(t, strings.HasPrefix(doc.DocumentObjectKey, "documents/ktp/"))
	assert.True(t, strings.HasSuffix(doc.DocumentObjectKey, ".pdf"))
	assert.True(t, blob.Has(doc.DocumentObjectKey))
	assert.Equal(t, constants.MimePDF, blob.ContentType(doc.DocumentObjectKey))

	slots, err := svc.Slots(cand.CandidateID)
	require.NoError(t, err)
	assert.Equal(t, "Menunggu Review", slots[0].StatusLabel)
	require.NotNil(t, slots[0].DocumentID)
	assert.Equal(t, doc.DocumentID, *slots[0].DocumentID)
}

func TestUploadImageConvertsToWebP(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	blob := oss.NewMemoryBlobService()
	svc := NewDocumentService(db, blob)

	doc, err := svc.Upload(context.Background(), cand.CandidateID, "photo", "foto.png", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, constants.MimeWebP, doc.DocumentMimeType)
	assert.True(t, strings.HasSuffix(doc.DocumentObjectKey, ".webp"))
	assert.Equal(t, constants.MimeWebP, blob.ContentType(doc.DocumentObjectKey))
}

func TestUploadRejectsBadInput(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	blob := oss.NewMemoryBlobService()
	svc := NewDocumentService(db, blob)
	ctx := context.Background()

	_, err := svc.Upload(ctx, cand.CandidateID, "ktp", "a.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	_, err = svc.Upload(ctx, cand.CandidateID, "paspor", "a.pdf", pdfBytes)
	assert.ErrorIs(t, err, ErrUnknownType)

	var fe *helper.FieldError
	_, err = svc.Upload(ctx, cand.CandidateID, "ktp", "catatan.txt", []byte("hanya teks biasa"))
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "file", fe.Field)
	assert.Contains(t, fe.Message, "Format: PDF, JPG, PNG")

	big := make([]byte, 6<<20)
	copy(big, pdfBytes)
	_, err = svc.Upload(ctx, cand.CandidateID, "ktp", "besar.pdf", big)
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Message, "Maksimal 5MB")

	assert.Empty(t, blob.Objects)
}

func TestReviewFlowAndReupload(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	sup := testkit.CreateUser(t, db, constants.RoleSupervisor, "Sari", nil)
	cons := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", &sup.UserID)
	other := testkit.CreateUser(t, db, constants.RoleSupervisor, "Tono", nil)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &cons)
	blob := oss.NewMemoryBlobService()
	svc := NewDocumentService(db, blob)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, cand.CandidateID, "ktp", "ktp.pdf", pdfBytes)
	require.NoError(t, err)

	_, err = svc.Approve(asViewer(other), doc.DocumentID)
	assert.True(t, repository.IsNotFound(err), "supervisor lain tidak melihat kandidat ini")

	var fe *helper.FieldError
	_, err = svc.Reject(asViewer(sup), doc.DocumentID, dto.RejectRequest{RejectionReason: "blur", RejectionNotes: "  "})
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "rejection_notes", fe.Field)

	row, err := svc.Reject(asViewer(sup), doc.DocumentID, dto.RejectRequest{RejectionReason: "blur", RejectionNotes: "foto tidak fokus"})
	require.NoError(t, err)
	assert.Equal(t, "Ditolak", row.StatusLabel)
	require.NotNil(t, row.RejectionLabel)
	assert.Equal(t, "Gambar buram", *row.RejectionLabel)
	assert.Equal(t, "Rina", row.CandidateName)
	assert.Equal(t, "KTP", row.TypeName)

	_, err = svc.Approve(asViewer(sup), doc.DocumentID)
	assert.Equal(t, fiber.StatusConflict, statusCode(err))

	slots, err := svc.Slots(cand.CandidateID)
	require.NoError(t, err)
	require.NotNil(t, slots[0].RejectionNotes)
	assert.Equal(t, "foto tidak fokus", *slots[0].RejectionNotes)

	again, err := svc.Upload(ctx, cand.CandidateID, "ktp", "ktp-baru.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, doc.DocumentID, again.DocumentID, "slot yang sama ditimpa")
	assert.Equal(t, model.DocPending, again.DocumentStatus)
	assert.Nil(t, again.DocumentRejectionReason)
	assert.False(t, blob.Has(doc.DocumentObjectKey), "file lama dihapus")
	assert.Contains(t, blob.Deleted, doc.DocumentObjectKey)

	ok, err := svc.Approve(asViewer(sup), again.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Disetujui", ok.StatusLabel)
	require.NotNil(t, ok.DocumentReviewedBy)
	assert.Equal(t, sup.UserID, *ok.DocumentReviewedBy)

	// upload ulang setelah disetujui tetap kembali ke pending
	third, err := svc.Upload(ctx, cand.CandidateID, "ktp", "ktp-3.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, model.DocPending, third.DocumentStatus)
	assert.Nil(t, third.DocumentReviewedAt)
}

func TestReviewQueueScopeAndFilters(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	a := testkit.CreateUser(t, db, constants.RoleConsultant, "Andi", nil)
	b := testkit.CreateUser(t, db, constants.RoleConsultant, "Budi", nil)
	admin := testkit.CreateUser(t, db, constants.RoleAdmin, "Admin", nil)
	rina := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", &a)
	dewi := testkit.CreateCandidate(t, db, "Dewi", "dewi@example.com", &b)
	svc := NewDocumentService(db, oss.NewMemoryBlobService())
	ctx := context.Background()
	page := helper.Params{Page: 1, PerPage: 20, SortBy: "uploaded_at", SortOrder: "asc"}

	for _, u := range []struct {
		id   uuid.UUID
		code string
	}{{rina.CandidateID, "ktp"}, {rina.CandidateID, "ijazah"}, {dewi.CandidateID, "ktp"}} {
		_, err := svc.Upload(ctx, u.id, u.code, u.code+".pdf", pdfBytes)
		require.NoError(t, err)
	}

	rows, total, err := svc.List(asViewer(a), ListFilter{}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, r := range rows {
		assert.Equal(t, "Rina", r.CandidateName)
	}

	_, total, err = svc.List(asViewer(admin), ListFilter{Status: model.DocPending, TypeCode: "ktp"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, total, err = svc.List(asViewer(admin), ListFilter{Identifier: "DEWI@example.com"}, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, dewi.CandidateID, rows[0].DocumentCandidateID)

	_, total, err = svc.List(asViewer(admin), ListFilter{Status: model.DocApproved}, page)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDocumentTypeSettings(t *testing.T) {
	db := testkit.NewDB(t)
	testkit.SeedDocumentTypes(t, db)
	cand := testkit.CreateCandidate(t, db, "Rina", "rina@example.com", nil)
	svc := NewDocumentService(db, oss.NewMemoryBlobService())

	_, err := svc.CreateType(dto.DocumentTypeRequest{Code: "KTP", Name: "KTP lagi"})
	assert.ErrorIs(t, err, ErrTypeCodeTaken)

	var fe *helper.FieldError
	_, err = svc.CreateType(dto.DocumentTypeRequest{Code: "rapor", Name: "Rapor", AcceptedMimes: "application/zip"})
	require.True(t, errors.As(err, &fe))

	m, err := svc.CreateType(dto.DocumentTypeRequest{Code: "Kartu Keluarga", Name: "Kartu Keluarga", SortOrder: 4})
	require.NoError(t, err)
	assert.Equal(t, "kartu_keluarga", m.DocumentTypeCode)
	assert.Equal(t, 5, m.DocumentTypeMaxSizeMB)
	assert.True(t, m.DocumentTypeIsActive)
	assert.Equal(t, "Format: PDF, JPG, PNG", constants.FormatHint(m.Mimes()))

	_, err = svc.Upload(context.Background(), cand.CandidateID, "kartu_keluarga", "kk.pdf", pdfBytes)
	require.NoError(t, err)

	m, err = svc.UpdateType(m.DocumentTypeID, dto.DocumentTypeRequest{Code: "kk", Name: "KK", SortOrder: 4, MaxSizeMB: 2, AcceptedMimes: "application/pdf"})
	require.NoError(t, err)
	assert.Equal(t, "kk", m.DocumentTypeCode)

	var n int64
	require.NoError(t, db.Model(&model.DocumentModel{}).Where("document_type_code = ?", "kk").Count(&n).Error)
	assert.EqualValues(t, 1, n)

	toggled, err := svc.ToggleType(m.DocumentTypeID)
	require.NoError(t, err)
	assert.False(t, toggled.DocumentTypeIsActive)

	slots, err := svc.Slots(cand.CandidateID)
	require.NoError(t, err)
	assert.Len(t, slots, 3, "jenis nonaktif tidak tampil")
}
