package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Stdin is where confirmation answers are read from.
var Stdin io.Reader = os.Stdin

// Confirm asks a yes/no question; anything but y or yes is a no.
func Confirm(question string) (bool, error) {
	fmt.Printf("%s [y/N]: ", question)

	response, err := bufio.NewReader(Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
