package paycek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pkgerrors "github.com/kevin07696/paycek-go/pkg/errors"
	"github.com/kevin07696/paycek-go/pkg/ports"
)

// Endpoint names relative to APIPrefix
const (
	EndpointPaymentGet                = "payment/get"
	EndpointPaymentOpen               = "payment/open"
	EndpointPaymentUpdate             = "payment/update"
	EndpointPaymentCancel             = "payment/cancel"
	EndpointProfileInfoGet            = "profile_info/get"
	EndpointProfileWithdraw           = "profile/withdraw"
	EndpointAccountCreate             = "account/create"
	EndpointAccountCreateWithPassword = "account/create_with_password"
	EndpointReportsGet                = "reports/get"
)

// Fields carries optional request fields. Keys are sent as-is and are not validated,
// so fields Paycek adds later can be used without a library update.
//
// Documented keys for payment/open: payment_id, location_id, items, email, success_url,
// fail_url, back_url, success_url_callback, fail_url_callback, status_url_callback,
// description, language, generate_pdf, client_fields.
type Fields map[string]any

// AccountRequest holds the required fields shared by account/create and
// account/create_with_password.
type AccountRequest struct {
	Email                          string
	Name                           string
	Street                         string
	City                           string
	Country                        string
	ProfileCurrency                string
	ProfileAutomaticWithdrawMethod string

	// iban is required by Paycek; purpose, model and pnb are optional
	ProfileAutomaticWithdrawDetails map[string]any
}

func (a AccountRequest) fields() map[string]any {
	return map[string]any{
		"email":                              a.Email,
		"name":                               a.Name,
		"street":                             a.Street,
		"city":                               a.City,
		"country":                            a.Country,
		"profile_currency":                   a.ProfileCurrency,
		"profile_automatic_withdraw_method":  a.ProfileAutomaticWithdrawMethod,
		"profile_automatic_withdraw_details": orEmpty(a.ProfileAutomaticWithdrawDetails),
	}
}

// GetPayment fetches a payment by its code
func (c *Client) GetPayment(ctx context.Context, paymentCode string) (Response, error) {
	return c.Call(ctx, EndpointPaymentGet, map[string]any{
		"payment_code": paymentCode,
	})
}

// OpenPayment opens a payment for dstAmount in the profile's currency
func (c *Client) OpenPayment(ctx context.Context, profileCode, dstAmount string, opts Fields) (Response, error) {
	return c.Call(ctx, EndpointPaymentOpen, c.buildBody(EndpointPaymentOpen, map[string]any{
		"profile_code": profileCode,
		"dst_amount":   dstAmount,
	}, opts))
}

// GeneratePaymentURL opens a payment and returns the hosted payment page URL
// found at data.payment_url.
func (c *Client) GeneratePaymentURL(ctx context.Context, profileCode, dstAmount string, opts Fields) (string, error) {
	resp, err := c.OpenPayment(ctx, profileCode, dstAmount, opts)
	if err != nil {
		return "", err
	}

	if data, ok := resp.Data(); ok {
		if url, ok := data.String("payment_url"); ok && url != "" {
			return url, nil
		}
	}

	raw := diagnosticBody(resp)
	c.logger.Warn("payment/open response has no payment_url",
		ports.String("endpoint", APIPrefix+"/"+EndpointPaymentOpen),
	)
	return "", pkgerrors.NewDecodeError(APIPrefix+"/"+EndpointPaymentOpen, 0, raw, errors.New("response has no data.payment_url"))
}

// diagnosticBody renders resp for a DecodeError, falling back to fmt when it
// holds values JSON cannot encode
func diagnosticBody(resp Response) []byte {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Appendf(nil, "%v", map[string]any(resp))
	}
	return raw
}

// UpdatePayment selects the source currency of an open payment.
// Optional: src_protocol.
func (c *Client) UpdatePayment(ctx context.Context, paymentCode, srcCurrency string, opts Fields) (Response, error) {
	return c.Call(ctx, EndpointPaymentUpdate, c.buildBody(EndpointPaymentUpdate, map[string]any{
		"payment_code": paymentCode,
		"src_currency": srcCurrency,
	}, opts))
}

// CancelPayment cancels an open payment
func (c *Client) CancelPayment(ctx context.Context, paymentCode string) (Response, error) {
	return c.Call(ctx, EndpointPaymentCancel, map[string]any{
		"payment_code": paymentCode,
	})
}

// GetProfileInfo fetches profile details
func (c *Client) GetProfileInfo(ctx context.Context, profileCode string) (Response, error) {
	return c.Call(ctx, EndpointProfileInfoGet, map[string]any{
		"profile_code": profileCode,
	})
}

// ProfileWithdraw withdraws amount from a profile using method and its details
func (c *Client) ProfileWithdraw(ctx context.Context, profileCode, method, amount string, details map[string]any, opts Fields) (Response, error) {
	return c.Call(ctx, EndpointProfileWithdraw, c.buildBody(EndpointProfileWithdraw, map[string]any{
		"profile_code": profileCode,
		"method":       method,
		"amount":       amount,
		"details":      orEmpty(details),
	}, opts))
}

// CreateAccount creates a merchant account.
// Optional: type, oib, vat, profile_name, profile_email, profile_type.
func (c *Client) CreateAccount(ctx context.Context, req AccountRequest, opts Fields) (Response, error) {
	return c.Call(ctx, EndpointAccountCreate, c.buildBody(EndpointAccountCreate, req.fields(), opts))
}

// CreateAccountWithPassword creates a merchant account with a login password.
// Optional: type, oib, vat, profile_name, profile_email.
func (c *Client) CreateAccountWithPassword(ctx context.Context, req AccountRequest, password string, opts Fields) (Response, error) {
	required := req.fields()
	required["password"] = password
	return c.Call(ctx, EndpointAccountCreateWithPassword, c.buildBody(EndpointAccountCreateWithPassword, required, opts))
}

// GetReports fetches reports for a profile within a datetime range.
// Optional: location_id.
func (c *Client) GetReports(ctx context.Context, profileCode, datetimeFrom, datetimeTo string, opts Fields) (Response, error) {
	return c.Call(ctx, EndpointReportsGet, c.buildBody(EndpointReportsGet, map[string]any{
		"profile_code":  profileCode,
		"datetime_from": datetimeFrom,
		"datetime_to":   datetimeTo,
	}, opts))
}

// buildBody merges optional fields into the required ones. Required fields win:
// an optional key that collides with one is dropped.
func (c *Client) buildBody(endpoint string, required map[string]any, opts Fields) map[string]any {
	body := make(map[string]any, len(required)+len(opts))
	for k, v := range opts {
		if _, ok := required[k]; ok {
			c.logger.Warn("ignoring optional field that shadows a required field",
				ports.String("endpoint", endpoint),
				ports.String("field", k),
			)
			continue
		}
		body[k] = v
	}
	for k, v := range required {
		body[k] = v
	}
	return body
}

func orEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
