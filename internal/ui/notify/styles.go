package notify

import (
	"strings"

	"github.com/Its-donkey/tms-ui/internal/ui/model"
)

// baseClass is applied on every Show and wipes classes left by earlier cycles.
const baseClass = "relative px-4 py-3 rounded-md border shadow-sm animate-slide-in-up"

// hiddenClass hides the surface.
const hiddenClass = "hidden"

// fadeClasses mark the surface while it fades out.
var fadeClasses = []string{"opacity-0", "transition-opacity", "duration-300"}

var kindClasses = map[model.NotificationKind][]string{
	model.KindSuccess: {"bg-green-100", "border-green-500", "text-green-800", "dark:bg-green-900", "dark:border-green-700", "dark:text-green-200"},
	model.KindError:   {"bg-red-100", "border-red-500", "text-red-800", "dark:bg-red-900", "dark:border-red-700", "dark:text-red-200"},
	model.KindWarning: {"bg-yellow-100", "border-yellow-500", "text-yellow-800", "dark:bg-yellow-900", "dark:border-yellow-700", "dark:text-yellow-200"},
	model.KindInfo:    {"bg-blue-100", "border-blue-500", "text-blue-800", "dark:bg-blue-900", "dark:border-blue-700", "dark:text-blue-200"},
}

// ClassFor returns the full class attribute for a visible notification of kind.
func ClassFor(kind model.NotificationKind) string {
	bundle, ok := kindClasses[kind]
	if !ok {
		bundle = kindClasses[model.KindInfo]
	}
	return baseClass + " " + strings.Join(bundle, " ")
}

// kindFromClass recovers the kind from a rendered class attribute.
func kindFromClass(class string) model.NotificationKind {
	for kind, bundle := range kindClasses {
		if strings.Contains(" "+class+" ", " "+bundle[0]+" ") {
			return kind
		}
	}
	return model.KindInfo
}
