package helpers

import (
	"fmt"

	"github.com/oksasatya/campus-auth/pkg/mailer"
)

// EnsureRecipientAndEmail fills the recipient fields templates rely on.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// WithDefaults sets the branding fields missing from job data.
func WithDefaults(job *mailer.EmailJob, defaults map[string]string) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for k, v := range defaults {
		if cur, ok := job.Data[k]; !ok || cur == nil || fmt.Sprintf("%v", cur) == "" {
			job.Data[k] = v
		}
	}
}
