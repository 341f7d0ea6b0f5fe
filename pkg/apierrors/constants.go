package apierrors

const (
	MsgFailListTask       = "errorListTask"
	MsgInvalidTaskID      = "invalidTaskID"
	MsgInvalidTaskPayload = "invalidTaskPayload"
	MsgTaskNotFound       = "taskNotFound"
	MsgFailCreateTask     = "failCreateTask"
	MsgFailUpdateTask     = "failUpdateTask"
	MsgFailDeleteTask     = "failDeleteTask"
	MsgAuthRequired       = "authRequired"
	MsgFailLoadSettings   = "failLoadSettings"
	MsgFailSaveSettings   = "failSaveSettings"
	MsgInvalidSettings    = "invalidSettings"
	MsgFailSendTestEmail  = "failSendTestEmail"
)
