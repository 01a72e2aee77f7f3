package http

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"lendops-backend/internal/domain/storage"
	"lendops-backend/internal/usecase/contract"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ContractHandler struct{ uc *contract.Usecase }

func NewContractHandler(uc *contract.Usecase) *ContractHandler { return &ContractHandler{uc: uc} }

type answerReq struct {
	QuestionID uint64 `json:"question_id" validate:"required"`
	Value      string `json:"value"`
}

type createContractReq struct {
	UserID          uint64          `json:"user_id"`
	ServiceID       uint64          `json:"service_id" validate:"required"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	Answers         []answerReq     `json:"answers"`
}

func (h *ContractHandler) Create(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	var req createContractReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	in := contract.CreateContractInput{
		UserID:          req.UserID,
		ServiceID:       req.ServiceID,
		RequestedAmount: req.RequestedAmount,
		Answers:         toAnswerInputs(req.Answers),
	}
	dto, err := h.uc.Create(c.Request().Context(), actor, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ContractHandler) Get(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dto, err := h.uc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// List returns the actor's own contracts. scope=created switches to the
// contracts the actor filed on behalf of others.
func (h *ContractHandler) List(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	in := contract.ListInput{
		ServiceID: queryUint64Ptr(c, "service_id"),
		StageID:   queryUint64Ptr(c, "stage_id"),
		Limit:     queryInt(c, "limit", 20),
		Offset:    queryInt(c, "offset", 0),
	}
	if c.QueryParam("scope") == "created" {
		in.CreatorID = &actor
	} else {
		in.OwnerID = &actor
	}
	dtos, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// AdminList is the unrestricted listing with free-text search across the
// owner's email, phone and name.
func (h *ContractHandler) AdminList(c echo.Context) error {
	in := contract.ListInput{
		OwnerID:   queryUint64Ptr(c, "user_id"),
		CreatorID: queryUint64Ptr(c, "creator_id"),
		ServiceID: queryUint64Ptr(c, "service_id"),
		StageID:   queryUint64Ptr(c, "stage_id"),
		Search:    strings.TrimSpace(c.QueryParam("search")),
		Limit:     queryInt(c, "limit", 20),
		Offset:    queryInt(c, "offset", 0),
	}
	dtos, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

type updateAnswersReq struct {
	Answers []answerReq `json:"answers" validate:"required,min=1,dive"`
}

func (h *ContractHandler) UpdateAnswers(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req updateAnswersReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if err := h.uc.UpdateAnswers(c.Request().Context(), actor, id, toAnswerInputs(req.Answers)); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// filePartPrefix names multipart file fields: document_<requirement_id>.
const filePartPrefix = "document_"

// Submit consumes a multipart form: an optional "answers" part holding a
// JSON array, plus one file part per document requirement named
// document_<requirement_id>.
func (h *ContractHandler) Submit(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		return badRequest(c, "invalid multipart form")
	}

	var in contract.SubmitInput
	if raw := c.FormValue("answers"); raw != "" {
		var answers []answerReq
		if err := json.Unmarshal([]byte(raw), &answers); err != nil {
			return badRequest(c, "answers must be a JSON array")
		}
		in.Answers = toAnswerInputs(answers)
	}

	for field, headers := range form.File {
		reqID, ok := requirementIDFromField(field)
		if !ok {
			return badRequest(c, "unexpected file field "+field)
		}
		for _, fh := range headers {
			up, err := readUpload(fh)
			if err != nil {
				return badRequest(c, "cannot read file "+fh.Filename)
			}
			in.Files = append(in.Files, contract.FileUpload{RequirementID: reqID, Upload: up})
		}
	}

	dto, err := h.uc.Submit(c.Request().Context(), actor, id, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type transitionReq struct {
	ToStageID          uint64           `json:"to_stage_id" validate:"required"`
	Note               string           `json:"note"`
	DisbursementAmount *decimal.Decimal `json:"disbursement_amount"`
	RevenuePercentage  *decimal.Decimal `json:"revenue_percentage"`
}

func (h *ContractHandler) Transition(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.TransitionStage(c.Request().Context(), actor, id, contract.TransitionInput{
		ToStageID:          req.ToStageID,
		Note:               req.Note,
		DisbursementAmount: req.DisbursementAmount,
		RevenuePercentage:  req.RevenuePercentage,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type disbursedAmountReq struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *ContractHandler) UpdateDisbursedAmount(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req disbursedAmountReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := h.uc.UpdateDisbursedAmount(c.Request().Context(), actor, id, req.Amount); err != nil {
		return domainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ContractHandler) History(c echo.Context) error {
	actor, err := actorID(c)
	if err != nil {
		return unauthorized(c, err)
	}
	id, err := pathID(c, "contract_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	dtos, err := h.uc.History(c.Request().Context(), actor, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func toAnswerInputs(in []answerReq) []contract.AnswerInput {
	out := make([]contract.AnswerInput, 0, len(in))
	for _, a := range in {
		out = append(out, contract.AnswerInput{QuestionID: a.QuestionID, Value: a.Value})
	}
	return out
}

func requirementIDFromField(field string) (uint64, bool) {
	if !strings.HasPrefix(field, filePartPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(field, filePartPrefix), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func readUpload(fh *multipart.FileHeader) (storage.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return storage.Upload{}, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return storage.Upload{}, err
	}
	return storage.Upload{
		FileName: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Content:  content,
	}, nil
}
