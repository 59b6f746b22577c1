package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sundsvallskommun/api-service-postportalservice/internal/domain"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/message"
	"github.com/Sundsvallskommun/api-service-postportalservice/internal/precheck"
	dErrors "github.com/Sundsvallskommun/api-service-postportalservice/pkg/domain-errors"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/platform/sentinel"
	"github.com/Sundsvallskommun/api-service-postportalservice/pkg/testutil"
)

type fakePrecheck struct {
	result *precheck.Result
	err    error
	gotReq precheck.Request
}

func (f *fakePrecheck) Run(_ context.Context, req precheck.Request) (*precheck.Result, error) {
	f.gotReq = req
	return f.result, f.err
}

type fakeMessages struct {
	id     uuid.UUID
	err    error
	msg    *domain.Message
	getErr error
}

func (f *fakeMessages) SendSms(context.Context, message.SmsRequest) (uuid.UUID, error) {
	return f.id, f.err
}

func (f *fakeMessages) SendDigitalMail(context.Context, message.DigitalMailRequest) (uuid.UUID, error) {
	return f.id, f.err
}

func (f *fakeMessages) SendLetter(context.Context, message.LetterRequest) (uuid.UUID, error) {
	return f.id, f.err
}

func (f *fakeMessages) GetMessage(context.Context, string, uuid.UUID) (*domain.Message, error) {
	return f.msg, f.getErr
}

func serve(t *testing.T, h Registrar, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPrecheckHandlerReturnsOutcomes(t *testing.T) {
	testutil.Given(t, "a precheck that classifies one id as digital mail")
	fake := &fakePrecheck{result: &precheck.Result{
		Outcomes: []domain.PrecheckOutcome{{
			LegalID:        "19900101-1234",
			PartyID:        "party-1",
			DeliveryMethod: domain.DeliveryMethodDigitalMail,
		}},
	}}
	h := NewPrecheckHandler(fake, testLogger(t))

	testutil.When(t, "a precheck request is posted")
	rec := serve(t, h, http.MethodPost, "/2281/precheck",
		`{"orgNumber":"5591628136","personalNumbers":["19900101-1234"]}`)

	testutil.Then(t, "the outcome list comes back with the municipality threaded through")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2281", fake.gotReq.MunicipalityID)
	assert.Equal(t, "5591628136", fake.gotReq.OrgNumber)

	var resp struct {
		Recipients []struct {
			PersonalNumber string `json:"personalNumber"`
			DeliveryMethod string `json:"deliveryMethod"`
		} `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recipients, 1)
	assert.Equal(t, "DIGITAL_MAIL", resp.Recipients[0].DeliveryMethod)
}

func TestPrecheckHandlerRejectsEmptyBatch(t *testing.T) {
	h := NewPrecheckHandler(&fakePrecheck{}, testLogger(t))
	rec := serve(t, h, http.MethodPost, "/2281/precheck", `{"personalNumbers":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPrecheckHandlerMapsUpstreamFailure(t *testing.T) {
	h := NewPrecheckHandler(&fakePrecheck{
		err: dErrors.New(dErrors.CodeUpstreamUnavailable, "party id resolution failed"),
	}, testLogger(t))
	rec := serve(t, h, http.MethodPost, "/2281/precheck", `{"personalNumbers":["19900101-1234"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestValidateCsvRejectsMalformedRows(t *testing.T) {
	testutil.Given(t, "a csv with one malformed row")
	h := NewPrecheckHandler(&fakePrecheck{}, testLogger(t))
	csv := "Personnummer\n19900101-1234\nnot-a-number\n"

	testutil.When(t, "it is validated")
	rec := serve(t, h, http.MethodPost, "/2281/validate-csv", csv)

	testutil.Then(t, "the request fails with an error naming the offender")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)
	assert.Contains(t, resp.ErrorDescription, "not-a-number")
}

func TestValidateCsvReportsDuplicates(t *testing.T) {
	testutil.Given(t, "a well-formed csv where one id appears twice")
	h := NewPrecheckHandler(&fakePrecheck{}, testLogger(t))
	csv := "Personnummer\n19900101-1234\n199001011234\n19851231-5678\n"

	testutil.When(t, "it is validated")
	rec := serve(t, h, http.MethodPost, "/2281/validate-csv", csv)

	testutil.Then(t, "the report counts occurrences on the hyphen-stripped form")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		BadEntries       []string       `json:"badEntries"`
		DuplicateEntries map[string]int `json:"duplicateEntries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.BadEntries)
	assert.Equal(t, map[string]int{"199001011234": 2}, resp.DuplicateEntries)
}

func TestValidateCsvRejectsWrongHeader(t *testing.T) {
	h := NewPrecheckHandler(&fakePrecheck{}, testLogger(t))
	rec := serve(t, h, http.MethodPost, "/2281/validate-csv", "Pers\n19900101-1234\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendSmsReturnsMessageID(t *testing.T) {
	id := uuid.New()
	h := NewMessageHandler(&fakeMessages{id: id}, testLogger(t))

	rec := serve(t, h, http.MethodPost, "/2281/messages/sms",
		`{"message":"hej","recipients":[{"partyId":"party-1","mobileNumber":"+46701234567"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, id.String(), resp.MessageID)
}

func TestSendDigitalMailRejectsBadAttachment(t *testing.T) {
	h := NewMessageHandler(&fakeMessages{id: uuid.New()}, testLogger(t))
	rec := serve(t, h, http.MethodPost, "/2281/messages/digital-mail",
		`{"subject":"x","personalNumbers":["19900101-1234"],"attachments":[{"fileName":"a.pdf","content":"%%%"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMessageRendersRecipientStates(t *testing.T) {
	msg := domain.NewMessage("2281", "SBK", "joe01doe")
	rcpt := domain.NewRecipient("party-1", domain.MessageTypeSMS)
	rcpt.MarkSent(domain.RecipientStatusSent, "ext-1")
	msg.Recipients = []*domain.Recipient{rcpt}

	h := NewMessageHandler(&fakeMessages{msg: msg}, testLogger(t))
	rec := serve(t, h, http.MethodGet, "/2281/messages/"+msg.ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		MessageID  string `json:"messageId"`
		Recipients []struct {
			Status     string `json:"status"`
			ExternalID string `json:"externalId"`
		} `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, msg.ID.String(), resp.MessageID)
	require.Len(t, resp.Recipients, 1)
	assert.Equal(t, "SENT", resp.Recipients[0].Status)
	assert.Equal(t, "ext-1", resp.Recipients[0].ExternalID)
}

func TestGetMessageNotFound(t *testing.T) {
	h := NewMessageHandler(&fakeMessages{getErr: sentinel.ErrNotFound}, testLogger(t))
	rec := serve(t, h, http.MethodGet, "/2281/messages/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetMessageRejectsMalformedID(t *testing.T) {
	h := NewMessageHandler(&fakeMessages{getErr: errors.New("unused")}, testLogger(t))
	rec := serve(t, h, http.MethodGet, "/2281/messages/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
