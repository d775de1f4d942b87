package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

// openBrowser opens url with the platform opener. It only checks that the
// opener could be started; whether the browser liked the URL is its problem.
func openBrowser(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("empty url")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
