package projectpath

import (
	"path/filepath"
	"runtime"
)

var (
	_, b, _, _ = runtime.Caller(0)

	// Root folder of this project
	//   used to find the .env file no matter which directory a test runs from
	Root = filepath.Join(filepath.Dir(b), "../..")
)
