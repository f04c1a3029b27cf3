package logging

import "log/slog"

// Domain identifiers

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func ConnID(id string) slog.Attr {
	return slog.String("conn_id", id)
}

func MessageID(id string) slog.Attr {
	return slog.String("message_id", id)
}

func Recipient(id string) slog.Attr {
	return slog.String("recipient_id", id)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
