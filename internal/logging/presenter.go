// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"
)

// PresentError formats an error for user display with secrets masked.
// A leading repeat of context in the error text is dropped.
func PresentError(context string, err error) string {
	if err == nil {
		return context
	}
	msg := Mask(err.Error())
	if rest, ok := strings.CutPrefix(msg, context+": "); ok {
		msg = rest
	}
	return fmt.Sprintf("%s: %s", context, msg)
}
