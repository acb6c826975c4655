package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RefreshTokenHeaderName is the gRPC metadata key a client may use instead of
// the request body to present its refresh token.
const RefreshTokenHeaderName = "refresh_token"
