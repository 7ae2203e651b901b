package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentgate/recruitmatch/internal/services"
	"github.com/talentgate/recruitmatch/internal/storage"
	"github.com/talentgate/recruitmatch/internal/utils"
	"github.com/talentgate/recruitmatch/internal/visibility"
)

const documentURLTTL = 15 * time.Minute

type CandidateHandler struct {
	profiles services.ProfileService
	unlocks  services.UnlockService
	signer   storage.Signer
}

func NewCandidateHandler(profiles services.ProfileService, unlocks services.UnlockService, signer storage.Signer) *CandidateHandler {
	return &CandidateHandler{profiles: profiles, unlocks: unlocks, signer: signer}
}

type CreateCandidateRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	RawText     string `json:"raw_text"`
	Public      bool   `json:"public"`
	UnlockPrice int64  `json:"unlock_price"`
}

func (h *CandidateHandler) Create(c *gin.Context) {
	var req CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CandidateHandler.Create", "invalid request body", err))
		return
	}

	p, err := h.profiles.CreateCandidate(c.Request.Context(), services.CreateCandidateInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		RawText:     req.RawText,
		Public:      req.Public,
		UnlockPrice: req.UnlockPrice,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	// Only the intake id and status go back; candidate data stays gated.
	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "status": p.Status})
}

// AttachDocument accepts a multipart upload: the original file plus the
// externally extracted text.
func (h *CandidateHandler) AttachDocument(c *gin.Context) {
	const op = "CandidateHandler.AttachDocument"

	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file is required", err))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read file", err))
		return
	}
	defer f.Close()

	doc, err := h.profiles.AttachDocument(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		c.PostForm("extracted_text"),
		f,
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"profile_id":  doc.ProfileID,
		"file_name":   doc.FileName,
		"size_bytes":  doc.SizeBytes,
		"uploaded_at": doc.UploadedAt,
	})
}

// Document hands out a short-lived signed URL for the original file plus the
// archived text. Gated: the caller needs an unlock grant unless the profile is
// public or the caller is an admin.
func (h *CandidateHandler) Document(c *gin.Context) {
	const op = "CandidateHandler.Document"

	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}
	candidateID := c.Param("id")

	p, err := h.profiles.GetCandidate(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	if !p.Public && !isAdmin(c) {
		has, err := h.unlocks.HasUnlock(c.Request.Context(), employerID, candidateID)
		if err != nil {
			writeError(c, err)
			return
		}
		// Reads as missing, same as every other gated lookup.
		if !has {
			writeError(c, utils.E(utils.CodeNotFound, op, "document not found", nil))
			return
		}
	}

	doc, err := h.profiles.GetDocument(c.Request.Context(), candidateID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"profile_id":  doc.ProfileID,
		"file_name":   doc.FileName,
		"mime_type":   doc.MimeType,
		"size_bytes":  doc.SizeBytes,
		"raw_text":    doc.RawText,
		"uploaded_at": doc.UploadedAt,
	}
	if h.signer != nil {
		url, err := h.signer.SignedGetURL(c.Request.Context(), doc.ObjectPath, documentURLTTL)
		if err != nil {
			writeError(c, utils.E(utils.CodeUnavailable, op, "failed to sign download url", err))
			return
		}
		resp["download_url"] = url
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CandidateHandler) Delete(c *gin.Context) {
	if err := h.profiles.DeleteCandidate(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "candidate deleted"})
}

func (h *CandidateHandler) Unlock(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	res, err := h.unlocks.Unlock(c.Request.Context(), employerID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"candidate":         visibility.FullProfile(res.Candidate),
		"remaining_credits": res.Remaining,
		"amount_charged":    res.Grant.AmountCredits,
	})
}
