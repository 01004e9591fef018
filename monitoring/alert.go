// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package monitoring

import (
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

// Alert reports err to error tracking, tagged with the component that raised it, and logs it.
// A nil err is reported as the message itself.
func Alert(component, message string, err error) {
	reported := errors.New(message)
	if err != nil {
		reported = errors.Wrap(err, message)
	}
	var evID *sentry.EventID
	sentry.WithScope(func(scope *sentry.Scope) {
		tag(scope, component)
		evID = sentry.CurrentHub().CaptureException(reported)
	})
	slog.Error("genoguard alert", "component", component, "msg", message, "error", err, "sentryEventId", evID)
}

// RecoverAndAlert reports a recovered panic value.
func RecoverAndAlert(component, message string, recovered any) {
	var evID *sentry.EventID
	sentry.WithScope(func(scope *sentry.Scope) {
		tag(scope, component)
		scope.SetTag("panic", "true")
		evID = sentry.CurrentHub().Recover(recovered)
	})
	slog.Error("genoguard alert (recover)", "component", component, "msg", message, "error", recovered, "sentryEventId", evID)
}

func tag(scope *sentry.Scope, component string) {
	scope.SetTag("service", "genoguard")
	scope.SetTag("component", component)
}
