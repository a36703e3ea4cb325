package consts

const (
	RevokedTokenKey = "auth:revoked:"
)
