package public

import (
	"github.com/qaunion/portal/i18n"
	"github.com/qaunion/portal/services/signup"
)

// MapUniversity is one marker on the contact map
type MapUniversity struct {
	Name   string  `json:"name"`
	NameAr string  `json:"nameAr"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// Map defaults: centred on Egypt with OpenStreetMap tiles
const (
	MapCenterLat = 26.8206
	MapCenterLng = 30.8025
	MapZoom      = 6
	MapTiles     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

var mapUniversities = []MapUniversity{
	{"Cairo University", "جامعة القاهرة", 30.0260, 31.2081},
	{"Alexandria University", "جامعة الإسكندرية", 31.2001, 29.9187},
	{"Ain Shams University", "جامعة عين شمس", 30.0715, 31.2816},
	{"Assiut University", "جامعة أسيوط", 27.1809, 31.1837},
	{"Tanta University", "جامعة طنطا", 30.7865, 31.0004},
	{"Mansoura University", "جامعة المنصورة", 31.0364, 31.3807},
	{"Zagazig University", "جامعة الزقازيق", 30.5852, 31.5039},
	{"Helwan University", "جامعة حلوان", 29.8500, 31.3000},
	{"Minia University", "جامعة المنيا", 28.0871, 30.7618},
	{"Menoufia University", "جامعة المنوفية", 30.5965, 31.0117},
	{"Suez Canal University", "جامعة قناة السويس", 30.5852, 32.2654},
	{"South Valley University", "جامعة جنوب الوادي", 25.6872, 32.6396},
	{"Benha University", "جامعة بنها", 30.4596, 31.1787},
	{"Fayoum University", "جامعة الفيوم", 29.3084, 30.8428},
	{"Beni-Suef University", "جامعة بني سويف", 29.0661, 31.0994},
	{"Kafr El Sheikh University", "جامعة كفر الشيخ", 31.1107, 30.9388},
	{"Sohag University", "جامعة سوهاج", 26.5569, 31.6948},
	{"Port Said University", "جامعة بورسعيد", 31.2653, 32.3019},
	{"Damanhour University", "جامعة دمنهور", 31.0341, 30.4707},
	{"Damietta University", "جامعة دمياط", 31.4165, 31.8133},
	{"Aswan University", "جامعة أسوان", 24.0889, 32.8998},
	{"Luxor University", "جامعة الأقصر", 25.6872, 32.6396},
	{"New Valley University", "جامعة الوادي الجديد", 25.4516, 28.9826},
	{"Matrouh University", "جامعة مطروح", 31.3543, 27.2373},
	{"American University in Cairo", "الجامعة الأمريكية بالقاهرة", 30.0131, 31.4989},
	{"German University in Cairo", "الجامعة الألمانية بالقاهرة", 29.9584, 31.4509},
	{"British University in Egypt", "الجامعة البريطانية في مصر", 29.9829, 31.4486},
	{"Nile University", "جامعة النيل", 30.0725, 31.0214},
	{"Misr University for Science and Technology", "جامعة مصر للعلوم والتكنولوجيا", 29.9869, 31.2708},
	{"6th October University", "جامعة 6 أكتوبر", 29.9584, 31.0214},
}

// MapMarker is a marker with its label already chosen for the locale
type MapMarker struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// MapMarkers labels every university in l
func MapMarkers(l i18n.Locale) []MapMarker {
	out := make([]MapMarker, 0, len(mapUniversities))
	for _, u := range mapUniversities {
		label := u.Name
		if l == i18n.Arabic {
			label = u.NameAr
		}
		out = append(out, MapMarker{Label: label, Lat: u.Lat, Lng: u.Lng})
	}
	return out
}

// ContactUniversities are the choices of the contact form. Labels carry both
// names so they read the same in either locale.
var ContactUniversities = []signup.Option{
	{Value: "cairo", Label: "جامعة القاهرة - Cairo University"},
	{Value: "alexandria", Label: "جامعة الإسكندرية - Alexandria University"},
	{Value: "ain-shams", Label: "جامعة عين شمس - Ain Shams University"},
	{Value: "assiut", Label: "جامعة أسيوط - Assiut University"},
	{Value: "tanta", Label: "جامعة طنطا - Tanta University"},
	{Value: "mansoura", Label: "جامعة المنصورة - Mansoura University"},
	{Value: "zagazig", Label: "جامعة الزقازيق - Zagazig University"},
	{Value: "helwan", Label: "جامعة حلوان - Helwan University"},
	{Value: "minia", Label: "جامعة المنيا - Minia University"},
	{Value: "menoufia", Label: "جامعة المنوفية - Menoufia University"},
	{Value: "suez-canal", Label: "جامعة قناة السويس - Suez Canal University"},
	{Value: "south-valley", Label: "جامعة جنوب الوادي - South Valley University"},
	{Value: "benha", Label: "جامعة بنها - Benha University"},
	{Value: "fayoum", Label: "جامعة الفيوم - Fayoum University"},
	{Value: "beni-suef", Label: "جامعة بني سويف - Beni-Suef University"},
	{Value: "kafr-el-sheikh", Label: "جامعة كفر الشيخ - Kafr El Sheikh University"},
	{Value: "sohag", Label: "جامعة سوهاج - Sohag University"},
	{Value: "port-said", Label: "جامعة بورسعيد - Port Said University"},
	{Value: "damanhour", Label: "جامعة دمنهور - Damanhour University"},
	{Value: "damietta", Label: "جامعة دمياط - Damietta University"},
	{Value: "aswan", Label: "جامعة أسوان - Aswan University"},
	{Value: "luxor", Label: "جامعة الأقصر - Luxor University"},
	{Value: "new-valley", Label: "جامعة الوادي الجديد - New Valley University"},
	{Value: "matrouh", Label: "جامعة مطروح - Matrouh University"},
	{Value: "auc", Label: "الجامعة الأمريكية بالقاهرة - AUC"},
	{Value: "guc", Label: "الجامعة الألمانية بالقاهرة - GUC"},
	{Value: "bue", Label: "الجامعة البريطانية في مصر - BUE"},
	{Value: "nile", Label: "جامعة النيل - Nile University"},
	{Value: "must", Label: "جامعة مصر للعلوم والتكنولوجيا - MUST"},
	{Value: "6-october", Label: "جامعة 6 أكتوبر - 6th October University"},
}
