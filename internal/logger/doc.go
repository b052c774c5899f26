// Package logger provides structured, component-scoped logging for tnadl.
//
// There is no package-level logger: every invocation builds one from
// LogConfig and hands it to the components that need it.
//
//	cfg := logger.DefaultLogConfig()
//	cfg.ApplyEnv()
//	log, _ := logger.CreateLoggerFromConfig(cfg)
//	tlog := log.WithComponent(logger.ComponentTransfer)
//	tlog.Info("Transfer started", map[string]interface{}{
//		"url":  "https://cdn.example.com/clip.mp4",
//		"path": "clip_12345.mp4",
//	})
//
// Components:
//   - ComponentApp: pipeline facade and CLI
//   - ComponentPlayer: metadata endpoint requests
//   - ComponentVariants: parsing and selection
//   - ComponentTransfer: byte transfer and resumption
//   - ComponentClient: HTTP client retries
//   - ComponentScript: user selection scripts
package logger
