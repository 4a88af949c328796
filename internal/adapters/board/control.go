package board

func (ctl *BoardWSController) handlePing(sess *session) {
	ctl.sendJSON(sess.conn, outEnvelope{Type: "pong", Payload: struct{}{}})
}
