package presenter

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"

	"github.com/williampepple1/trust-score-scraper/internal/explain"
	"github.com/williampepple1/trust-score-scraper/pkg/models"
)

// ErrorMessage is the only failure text users see
const ErrorMessage = "Failed to calculate trust score. Please try again."

// LoaderMessage is shown while the scorer is working
const LoaderMessage = "Calculating Trust Score"

// BindingName is the page function that reports clicks back to a live controller
const BindingName = "trustScoreEvent"

// Percent converts a [0,1] score to a whole percentage, rounding half up
func Percent(score float64) int {
	return int(math.Floor(score*100 + 0.5))
}

var markup = template.Must(template.New("ui").Parse(`
{{- define "badge" -}}
<div id="trust-score-button" class="trust-score-button" role="button" tabindex="0">
  <div class="trust-score-badge">{{.Percent}}%</div>
  <span>Trust Score</span>
</div>
{{- end -}}
{{- define "modal" -}}
<div id="trust-score-modal" class="trust-score-modal" style="display:none">
  <div class="modal-content">
    <div class="modal-header">
      <h3>Detailed Trust Analysis</h3>
      <div class="overall-score">Overall: {{.Percent}}%</div>
    </div>
    <div class="score-details">
      {{- range .Items}}
      <div class="detail-item">
        <div class="detail-label">{{.Label}}:</div>
        <div class="detail-value">{{.Percent}}%</div>
        <div class="detail-explanation">{{.Explanation}}</div>
      </div>
      {{- end}}
    </div>
    <button class="close-modal" type="button">Close</button>
  </div>
</div>
{{- end -}}
{{- define "loader" -}}
<div id="trust-score-loader" class="trust-score-loader">{{.}}</div>
{{- end -}}
{{- define "error" -}}
<div id="trust-score-error" class="trust-score-error" role="alert" data-run="{{.Run}}">{{.Message}}</div>
{{- end -}}
`))

type detailItem struct {
	Label       string
	Percent     int
	Explanation template.HTML
}

type modalView struct {
	Percent int
	Items   []detailItem
}

func item(label string, d models.Dimension) detailItem {
	return detailItem{
		Label:   label,
		Percent: Percent(d.Score),
		// Format escapes all text it emits.
		Explanation: template.HTML(explain.Format(d.Summary)),
	}
}

// BadgeMarkup renders the collapsed badge
func BadgeMarkup(r *models.ScoreResult) (string, error) {
	return execute("badge", struct{ Percent int }{Percent(r.TrustScore)})
}

// ModalMarkup renders the hidden detail modal
func ModalMarkup(r *models.ScoreResult) (string, error) {
	return execute("modal", modalView{
		Percent: Percent(r.TrustScore),
		Items: []detailItem{
			item("Image Match", r.Details.ImageTextAlignment),
			item("Review Quality", r.Details.ReviewAuthenticity),
			item("Brand Verification", r.Details.LogoVerification),
			item("Return Feedback", r.Details.ReturnsFeedback),
		},
	})
}

// LoaderMarkup renders the loading indicator
func LoaderMarkup() (string, error) {
	return execute("loader", LoaderMessage)
}

// ErrorMarkup renders the error indicator of one failed run
func ErrorMarkup(message string, run int) (string, error) {
	return execute("error", struct {
		Message string
		Run     int
	}{message, run})
}

// DismissScript removes the error indicator of run after the delay. An
// indicator from a later run has another run number and is left in place.
func DismissScript(run int, after time.Duration) string {
	return fmt.Sprintf(`setTimeout(function () {
  var host = document.getElementById("trust-score-host");
  var root = host && host.shadowRoot ? host.shadowRoot : document;
  var el = root.getElementById(%q);
  if (el && el.getAttribute("data-run") === "%d") el.remove();
}, %d);`, ErrorID, run, after.Milliseconds())
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := markup.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Behavior wires the badge and modal. With a live controller attached the
// clicks are reported through the binding and the controller toggles the
// modal; otherwise the script toggles it itself.
const Behavior = `(function () {
  var host = document.getElementById("trust-score-host");
  var root = host && host.shadowRoot ? host.shadowRoot : document;
  var badge = root.getElementById("trust-score-button");
  var modal = root.getElementById("trust-score-modal");
  if (!badge || !modal || modal.dataset.wired) return;
  modal.dataset.wired = "1";
  function report(target) {
    if (typeof window.trustScoreEvent === "function") {
      window.trustScoreEvent(target);
      return true;
    }
    return false;
  }
  badge.addEventListener("click", function () {
    if (!report("badge")) modal.style.display = "flex";
  });
  modal.querySelector(".close-modal").addEventListener("click", function () {
    if (!report("close")) modal.style.display = "none";
  });
  modal.addEventListener("click", function (e) {
    if (e.target === modal && !report("background")) modal.style.display = "none";
  });
})();`

// Styles is the stylesheet of the injected UI
const Styles = `
:host { all: initial; }

.trust-score-button {
  display: flex;
  align-items: center;
  gap: 8px;
  background: #ffffff;
  border: 2px solid #007185;
  border-radius: 20px;
  padding: 8px 12px;
  box-shadow: 0 2px 10px rgba(0,0,0,0.1);
  font-family: Arial, sans-serif;
  position: fixed;
  bottom: 20px;
  left: 20px;
  z-index: 2147483647;
  cursor: pointer;
  transition: all 0.2s ease;
  opacity: 0.95;
}
.trust-score-button:hover {
  transform: scale(1.05);
  opacity: 1;
  box-shadow: 0 4px 15px rgba(0,0,0,0.15);
}
.trust-score-badge {
  font-weight: bold;
  font-size: 16px;
  color: #007185;
}

.trust-score-modal {
  position: fixed;
  top: 0;
  left: 0;
  right: 0;
  bottom: 0;
  background: rgba(0,0,0,0.5);
  justify-content: center;
  align-items: center;
  z-index: 2147483647;
  backdrop-filter: blur(2px);
  font-family: Arial, sans-serif;
}
.modal-content {
  background: white;
  border-radius: 8px;
  padding: 20px;
  width: 90%;
  max-width: 500px;
  max-height: 80vh;
  overflow-y: auto;
  position: relative;
  box-shadow: 0 5px 20px rgba(0,0,0,0.2);
  animation: trust-score-fade-in 0.3s ease;
}
@keyframes trust-score-fade-in {
  from { opacity: 0; transform: translateY(20px); }
  to { opacity: 1; transform: translateY(0); }
}
.modal-header {
  display: flex;
  justify-content: space-between;
  align-items: center;
  margin-bottom: 15px;
  padding-bottom: 10px;
  border-bottom: 1px solid #eee;
}
.overall-score {
  font-weight: bold;
  font-size: 18px;
  color: #007185;
  background: #f0f7fa;
  padding: 5px 10px;
  border-radius: 5px;
}
.score-details {
  display: grid;
  gap: 15px;
  margin: 20px 0;
}
.detail-item {
  padding: 12px;
  background: #f8f8f8;
  border-radius: 5px;
}
.detail-label {
  font-weight: bold;
  margin-bottom: 5px;
}
.detail-value {
  font-size: 18px;
  font-weight: bold;
  color: #007185;
  margin: 5px 0;
}
.detail-explanation {
  font-size: 14px;
  color: #555;
  line-height: 1.4;
}
.close-modal {
  margin-top: 20px;
  padding: 10px 16px;
  background: #007185;
  color: white;
  border: none;
  border-radius: 4px;
  cursor: pointer;
  font-weight: bold;
  width: 100%;
}
.close-modal:hover {
  background: #005f73;
}

.trust-score-loader {
  position: fixed;
  bottom: 20px;
  left: 20px;
  background: #ffffff;
  border: 2px dashed #007185;
  padding: 10px 14px;
  border-radius: 10px;
  font-family: Arial, sans-serif;
  z-index: 2147483647;
  font-size: 14px;
  color: #007185;
  display: flex;
  align-items: center;
  gap: 8px;
}
.trust-score-loader:after {
  content: "";
  width: 16px;
  height: 16px;
  border: 2px solid #007185;
  border-top-color: transparent;
  border-radius: 50%;
  animation: trust-score-spin 0.8s linear infinite;
}
@keyframes trust-score-spin {
  to { transform: rotate(360deg); }
}

.trust-score-error {
  position: fixed;
  bottom: 20px;
  left: 20px;
  background: #ffecec;
  border: 2px solid #ff6b6b;
  border-radius: 10px;
  padding: 10px 14px;
  font-family: Arial, sans-serif;
  z-index: 2147483647;
  font-size: 14px;
  color: #d32f2f;
  max-width: 300px;
}
`
