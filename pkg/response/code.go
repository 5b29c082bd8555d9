package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 鉴权错误 100xx
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 商品与库存错误 200xx
	ErrOfferNotFound     = 20001
	ErrInsufficientStock = 20002
	ErrCodeNotFound      = 20003

	// 支付与订单错误 300xx
	ErrInvalidSignature   = 30001
	ErrAlreadyProcessed   = 30002
	ErrAmountMismatch     = 30003
	ErrGatewayUnavailable = 30004
	ErrOrderNotFound      = 30005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
	ErrStorageFailure  = 50004
	ErrMaintenance     = 50005
)
