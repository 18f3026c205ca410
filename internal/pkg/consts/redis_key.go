package consts

const (
	WSBindingKey  = "ws:binding"
	WSConnChannel = "ws:conn:"
)

const (
	ReportLock = "report:lock:"
)
