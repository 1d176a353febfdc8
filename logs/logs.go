package logs

import logging "github.com/ipfs/go-log/v2"

func SetAllLoggers(level logging.LogLevel) {
	logging.SetAllLoggers(level)
	_ = logging.SetLogLevel("blockservice", "WARN")
	_ = logging.SetLogLevel("blockstore", "WARN")
	_ = logging.SetLogLevel("badger", "WARN")
	_ = logging.SetLogLevel("fx", "WARN")
}
