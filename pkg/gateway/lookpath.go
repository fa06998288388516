package gateway

import "os/exec"

func lookPath(binary string) (string, error) {
	return exec.LookPath(binary)
}
