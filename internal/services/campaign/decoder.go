package campaign

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// DecodeError is a form problem that rejects the whole request
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return e.Message
}

func decodeErrorf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Message: fmt.Sprintf(format, args...)}
}

// Form is a decoded campaign submission
type Form struct {
	Name           string
	Platform       string
	Budget         float64
	BudgetType     string
	Currency       string
	DateRangeStart *time.Time
	DateRangeEnd   *time.Time
	Description    string
	EnhanceWithAI  bool

	// Details holds the fields of the selected platform. Values are
	// strings, or parsed JSON for structured fields (nil when malformed).
	Details map[string]interface{}

	// MediaFile is the single attachment, nil when none was valid
	MediaFile storage.Attachment
	// MediaFiles are the valid attachments of the multi-file field,
	// in submission order
	MediaFiles []storage.Attachment
	// Rejected lists the attachments excluded by validation
	Rejected []string
}

// DecodeForm turns a parsed multipart body into a typed form. Unknown
// field names and unsupported platforms are rejected, malformed JSON
// degrades to nil for that field, and invalid attachments are excluded
// and listed in Rejected.
func DecodeForm(mf *multipart.Form) (*Form, error) {
	if mf == nil {
		return nil, decodeErrorf("request body is not a multipart form")
	}

	for _, name := range sortedKeys(mf.Value) {
		if name == FieldMediaFile || name == FieldMediaFiles {
			continue
		}
		if _, ok := LookupField(name); !ok {
			return nil, decodeErrorf("unknown field %q", name)
		}
	}
	for name := range mf.File {
		if name != FieldMediaFile && name != FieldMediaFiles {
			return nil, decodeErrorf("unknown field %q", name)
		}
	}

	value := func(name string) (string, bool) {
		values, ok := mf.Value[name]
		if !ok || len(values) == 0 {
			return "", false
		}
		return values[0], true
	}

	platform, _ := value("platform")
	platform = strings.TrimSpace(platform)
	if platform == "" {
		return nil, decodeErrorf("platform is required")
	}
	if _, ok := config.GetPlatformByID(platform); !ok {
		return nil, decodeErrorf("unsupported platform %q", platform)
	}

	form := &Form{
		Platform: platform,
		Details:  map[string]interface{}{},
	}

	for _, field := range formSchema {
		raw, present := value(field.Name)
		if !field.appliesTo(platform) {
			if present && raw != "" {
				logrus.Debugf("Dropping field %s for platform %s", field.Name, platform)
			}
			continue
		}
		if !present || raw == "" {
			raw = field.Default
		}

		decoded, err := decodeValue(field, raw)
		if err != nil {
			return nil, err
		}

		if !field.common() {
			if present {
				form.Details[field.Name] = decoded
			}
			continue
		}
		form.setCommon(field.Name, decoded)
	}

	single := attachments(mf.File[FieldMediaFile])
	if len(single) > 1 {
		single = single[:1]
	}
	valid, rejected := validAttachmentList(single)
	if len(valid) > 0 {
		form.MediaFile = valid[0]
	}
	form.Rejected = rejected

	form.MediaFiles, rejected = validAttachmentList(attachments(mf.File[FieldMediaFiles]))
	form.Rejected = append(form.Rejected, rejected...)

	return form, nil
}

func (f *Form) setCommon(name string, v interface{}) {
	switch name {
	case "name":
		f.Name = v.(string)
	case "budget":
		f.Budget = v.(float64)
	case "budgetType":
		f.BudgetType = v.(string)
	case "currency":
		f.Currency = v.(string)
	case "description":
		f.Description = v.(string)
	case "enhanceWithAI":
		f.EnhanceWithAI = v.(bool)
	case "dateRangeStart":
		f.DateRangeStart = v.(*time.Time)
	case "dateRangeEnd":
		f.DateRangeEnd = v.(*time.Time)
	}
}

func decodeValue(field Field, raw string) (interface{}, error) {
	switch field.Kind {
	case KindNumber:
		return utils.ParseFloatOrZero(raw), nil
	case KindBool:
		return raw == "true", nil
	case KindDate:
		t, err := ParseDate(raw)
		if err != nil {
			return nil, decodeErrorf("invalid %s: %q", field.Name, raw)
		}
		return t, nil
	case KindJSON:
		if raw == "" {
			return nil, nil
		}
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			logrus.Warnf("Failed to parse JSON field %s: %v", field.Name, err)
			return nil, nil
		}
		return v, nil
	default:
		return raw, nil
	}
}

// ParseDate accepts YYYY-MM-DD or RFC3339. An empty string is nil.
func ParseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func attachments(headers []*multipart.FileHeader) []storage.Attachment {
	out := make([]storage.Attachment, 0, len(headers))
	for _, h := range headers {
		out = append(out, storage.NewFileHeaderAttachment(h))
	}
	return out
}

func validAttachmentList(list []storage.Attachment) ([]storage.Attachment, []string) {
	var valid []storage.Attachment
	var rejected []string
	for i, a := range list {
		if err := checkAttachment(i, a); err != "" {
			logrus.Warn(err)
			rejected = append(rejected, err)
			continue
		}
		valid = append(valid, a)
	}
	return valid, rejected
}

func checkAttachment(index int, a storage.Attachment) string {
	if a.Filename() == "" || a.ContentType() == "" {
		return fmt.Sprintf("File at index %d missing required properties", index)
	}
	if a.Size() <= 0 {
		return fmt.Sprintf("File %s is empty (0 bytes)", a.Filename())
	}
	return ""
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
