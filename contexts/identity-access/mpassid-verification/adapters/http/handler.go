package httpadapter

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"log/slog"

	"github.com/crewjam/saml"

	"agora/contexts/identity-access/mpassid-verification/adapters/samlattr"
	application "agora/contexts/identity-access/mpassid-verification/application"
	"agora/contexts/identity-access/mpassid-verification/application/commands"
	"agora/contexts/identity-access/mpassid-verification/application/queries"
	"agora/contexts/identity-access/mpassid-verification/domain/assertion"
	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	httptransport "agora/contexts/identity-access/mpassid-verification/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	Grant     commands.GrantAuthorizationUseCase
	Authorize queries.AuthorizeActionUseCase
	Get       queries.GetAuthorizationUseCase
	Decoder   samlattr.Decoder
	Logger    *slog.Logger
}

// ErrMalformedAssertion reports an assertion document that could not be
// decoded from its wire encoding.
var ErrMalformedAssertion = errors.New("assertion document is malformed")

// GrantFromAssertionHandler extracts attributes from a validated assertion
// document and records the outcome as an authorization.
func (h Handler) GrantFromAssertionHandler(
	ctx context.Context,
	request httptransport.GrantFromAssertionRequest,
) (httptransport.GrantAuthorizationResponse, error) {
	raw, err := base64.StdEncoding.DecodeString(request.Assertion)
	if err != nil {
		return httptransport.GrantAuthorizationResponse{}, ErrMalformedAssertion
	}

	var doc saml.Assertion
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return httptransport.GrantAuthorizationResponse{}, ErrMalformedAssertion
	}

	return h.GrantAuthorizationHandler(ctx, httptransport.GrantAuthorizationRequest{
		OrganizationID: request.OrganizationID,
		UserID:         request.UserID,
		SubjectUID:     h.Decoder.SubjectUID(&doc),
		Attributes:     h.Decoder.Decode(&doc),
	})
}

// GrantAuthorizationHandler records the assertion outcome as an authorization.
func (h Handler) GrantAuthorizationHandler(
	ctx context.Context,
	request httptransport.GrantAuthorizationRequest,
) (httptransport.GrantAuthorizationResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http mpassid grant received",
		"event", "mpassid_http_grant_received",
		"module", "identity-access/mpassid-verification",
		"layer", "transport",
		"organization_id", request.OrganizationID,
		"user_id", request.UserID,
	)

	result, err := h.Grant.Execute(ctx, commands.GrantAuthorizationCommand{
		OrganizationID: request.OrganizationID,
		UserID:         request.UserID,
		SubjectUID:     request.SubjectUID,
		Attributes:     assertion.Attributes(request.Attributes),
	})
	if err != nil {
		logger.Error("http mpassid grant failed",
			"event", "mpassid_http_grant_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "transport",
			"organization_id", request.OrganizationID,
			"user_id", request.UserID,
			"error", err.Error(),
		)
		return httptransport.GrantAuthorizationResponse{}, err
	}
	return httptransport.GrantAuthorizationResponse{
		Authorization: toAuthorizationDTO(result.Authorization),
		VerifiedEmail: result.VerifiedEmail,
	}, nil
}

// AuthorizeActionHandler evaluates one protected action for one user.
func (h Handler) AuthorizeActionHandler(
	ctx context.Context,
	userID string,
	request httptransport.AuthorizeActionRequest,
) (httptransport.VerdictResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http mpassid authorize received",
		"event", "mpassid_http_authorize_received",
		"module", "identity-access/mpassid-verification",
		"layer", "transport",
		"user_id", userID,
	)

	verdict, err := h.Authorize.Execute(ctx, queries.AuthorizeActionQuery{
		UserID:  userID,
		Options: request.Options,
	})
	if err != nil {
		logger.Error("http mpassid authorize failed",
			"event", "mpassid_http_authorize_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "transport",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.VerdictResponse{}, err
	}

	response := httptransport.VerdictResponse{Status: string(verdict.Status)}
	if verdict.ExtraExplanation != nil {
		response.ExtraExplanation = &httptransport.ExplanationDTO{
			Key:    verdict.ExtraExplanation.Key,
			Params: verdict.ExtraExplanation.Params,
		}
	}
	return response, nil
}

// GetAuthorizationHandler returns the stored authorization of one user.
func (h Handler) GetAuthorizationHandler(ctx context.Context, userID string) (httptransport.AuthorizationDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http mpassid get authorization received",
		"event", "mpassid_http_get_authorization_received",
		"module", "identity-access/mpassid-verification",
		"layer", "transport",
		"user_id", userID,
	)

	record, err := h.Get.Execute(ctx, userID)
	if err != nil {
		logger.Error("http mpassid get authorization failed",
			"event", "mpassid_http_get_authorization_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "transport",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.AuthorizationDTO{}, err
	}
	return toAuthorizationDTO(record), nil
}

func toAuthorizationDTO(record entities.Authorization) httptransport.AuthorizationDTO {
	return httptransport.AuthorizationDTO{
		AuthorizationID: record.AuthorizationID,
		OrganizationID:  record.OrganizationID,
		UserID:          record.UserID,
		Name:            record.Name,
		Metadata:        record.Metadata,
		GrantedAt:       record.GrantedAt,
	}
}
