package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cmc-agency/policy-cli/internal/model"
)

func tag(t model.PolicyType, c model.Carrier) model.Tag {
	return model.Tag{Type: t, Carrier: c}
}

func TestExtract_EmptyTextYieldsPlaceholders(t *testing.T) {
	doc := NewDocument("", "bos.pdf")
	rec, ok := Extract(doc, tag(model.TypeTraffic, model.CarrierHDI))

	assert.True(t, ok)
	assert.Equal(t, model.Placeholder, rec.Insured)
	assert.Equal(t, model.Placeholder, rec.Date)
	assert.Equal(t, model.Placeholder, rec.PolicyNo)
	assert.Equal(t, model.Placeholder, rec.Plate)
	assert.Equal(t, "0", rec.Amount)
	assert.Equal(t, model.TypeTraffic, rec.Type)
	assert.Equal(t, model.CarrierHDI, rec.Carrier)
}

func TestExtract_HDILegacy(t *testing.T) {
	doc := NewDocument(
		"HDI SİGORTA A.Ş.\n"+
			"Adı Soyadı / Ünvanı : AHMET YILMAZ\n"+
			"Poliçe No : 1234567890-1\n"+
			"Müşteri No : 765432\n"+
			"Başlangıç Tarihi : 05/03/2026\n"+
			"Plaka No : 34 ABC 123\n"+
			"Model / Marka : 2021 RENAULT CLIO\n"+
			"Toplam Prim 4.525,50 TL\n",
		"hdi.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierHDI))

	assert.Equal(t, "AHMET YILMAZ", rec.Insured)
	assert.Equal(t, "1234567890-1", rec.PolicyNo)
	assert.Equal(t, "765432", rec.CustomerNo)
	assert.Equal(t, "05/03/2026", rec.Date)
	assert.Equal(t, "34ABC123", rec.Plate)
	assert.Equal(t, "RENAULT", rec.Brand)
	assert.Equal(t, "4.525,50", rec.Amount)
}

func TestExtract_HDI2026Layout(t *testing.T) {
	doc := NewDocument(
		"HDI SİGORTA\n"+
			"Ad Soyad / Ünvan AYŞE DEMİR\n"+
			"Poliçe No 9876543210\n"+
			"Başlangıç-Bitiş Tarihi 06/01/2026-06/01/2027\n"+
			"Plaka No 06XY1234\n"+
			"Marka CHERY\n"+
			"Toplam Ödenecek Prim 12.345,67 TL\n",
		"hdi-yeni.pdf")
	rec, _ := Extract(doc, model.Tag{Type: model.TypeTraffic, Carrier: model.CarrierHDI, Layout: model.LayoutHDI2026})

	assert.Equal(t, "AYŞE DEMİR", rec.Insured)
	assert.Equal(t, "9876543210", rec.PolicyNo)
	assert.Equal(t, "06/01/2026", rec.Date)
	assert.Equal(t, "06XY1234", rec.Plate)
	assert.Equal(t, "CHERY", rec.Brand)
	assert.Equal(t, "12.345,67", rec.Amount)
	assert.Equal(t, model.Placeholder, rec.CustomerNo)
}

func TestExtract_Ethica(t *testing.T) {
	doc := NewDocument(
		"ETHICA SİGORTA\n"+
			"Sigortalının Adı Soyadı : MEHMET KAYA Sigortalının Adresi: ANKARA\n"+
			"Poliçe No : 87654321\n"+
			"Müşteri No : 123456\n"+
			"Başlangıç Tarihi : 01/02/2026\n"+
			"Plaka No : 06 DEF 42\n"+
			"Ödenecek Prim : 3.100,25 TL\n",
		"ethica.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierEthica))

	assert.Equal(t, "MEHMET KAYA", rec.Insured)
	assert.Equal(t, "87654321", rec.PolicyNo)
	assert.Equal(t, "06DEF42", rec.Plate)
	assert.Equal(t, "3.100,25", rec.Amount)
}

func TestExtract_SompoBareNumbers(t *testing.T) {
	doc := NewDocument(
		"SOMPO SİGORTA\n"+
			"ADI SOYADI / ÜNVANI : FATMA ÖZTÜRK ADRESİ: İZMİR\n"+
			"312345678901234\n"+
			"8123456789\n"+
			"01/04/2026 tanzim\n"+
			"Plaka No : 35 GHJ 99\n"+
			"Ödenecek Prim : 2.000,00 TL\n",
		"sompo.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierSompo))

	assert.Equal(t, "312345678901234", rec.PolicyNo)
	assert.Equal(t, "8123456789", rec.CustomerNo)
	assert.Equal(t, "01/04/2026", rec.Date)
	assert.Equal(t, "35GHJ99", rec.Plate)
}

func TestExtract_SompoPhoneNotCustomerNo(t *testing.T) {
	// No 8-prefixed token: the loose 10-digit pass must skip phone numbers.
	doc := NewDocument("SOMPO\nTel 5321234567\n9876543210 müşteri\n", "sompo2.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierSompo))

	assert.Equal(t, "9876543210", rec.CustomerNo)
}

func TestExtract_QuickBrandAnchor(t *testing.T) {
	doc := NewDocument(
		"QUICK SİGORTA\n"+
			"Sigortalı Adı/Ünvanı : ALİ VELİ Adresi: BURSA\n"+
			"Poliçe No : 1122334455\n"+
			"Poliçe Başlangıç Tarihi : 10/05/2026\n"+
			"Kullanım Tarzı : OTOMOBİL\n"+
			"Marka : TOYOTA\n"+
			"Model Yılı : 2022\n"+
			"Yakıt : BENZİN\n",
		"quick.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierQuick))

	assert.Equal(t, "ALİ VELİ", rec.Insured)
	assert.Equal(t, "1122334455", rec.PolicyNo)
	assert.Equal(t, "10/05/2026", rec.Date)
	assert.Equal(t, "TOYOTA", rec.Brand)
}

func TestExtract_DogaDateNormalized(t *testing.T) {
	doc := NewDocument(
		"DOĞA SİGORTA\n"+
			"SİGORTALI\n"+
			"HASAN ÇELİK\n"+
			"Ürün No : 12345678\n"+
			"Başlama Tarihi : 15.06.2026\n"+
			"Plaka : 16 KLM 555\n",
		"doga.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierDoga))

	assert.Equal(t, "HASAN ÇELİK", rec.Insured)
	assert.Equal(t, "12345678", rec.PolicyNo)
	assert.Equal(t, "15/06/2026", rec.Date)
	assert.Equal(t, "16KLM555", rec.Plate)
}

func TestExtract_HepiyiMiddleDate(t *testing.T) {
	doc := NewDocument(
		"HEPİYİ SİGORTA\n"+
			"Sigortalı Adı Soyadı/Ünvanı : ZEYNEP ARSLAN Kimlik No: 11111111111\n"+
			"Poliçe No 1234567890\n"+
			"01/01/2026 02/01/2026 02/01/2027\n"+
			"Brüt Prim 5.250,75\n",
		"hepiyi.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierHepiyi))

	assert.Equal(t, "ZEYNEP ARSLAN", rec.Insured)
	assert.Equal(t, "02/01/2026", rec.Date)
	assert.Equal(t, "5.250,75", rec.Amount)
}

func TestExtract_AllianzTrafficSegmentedPolicyNo(t *testing.T) {
	doc := NewDocument(
		"Karayolları Motorlu Araçlar Zorunlu Mali Sorumluluk Sigortası\n"+
			"Adı Soyadı : Murat Aydın 12345678901\n"+
			"Poliçe No : 0001-0210-63424647\n"+
			"Başlangıç Tarihi : 20/01/2026 12:00\n"+
			"Plaka No : 66 LL 208\n"+
			"Marka : TOFAS-FIAT (100)\n"+
			"Ödenecek Prim : 6,865.44 TL\n",
		"allianz.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierAllianz))

	assert.Equal(t, "MURAT AYDIN", rec.Insured)
	assert.Equal(t, "0001-0210-63424647", rec.PolicyNo)
	assert.Equal(t, "20/01/2026", rec.Date)
	assert.Equal(t, "66LL208", rec.Plate)
	assert.Equal(t, "TOFAS-FIAT", rec.Brand)
	// US-formatted premium is normalized to the Turkish convention.
	assert.Equal(t, "6.865,44", rec.Amount)
}

func TestExtract_AllianzCascoSayinFallback(t *testing.T) {
	doc := NewDocument(
		"Sayın Tarkan Şahin ,\n"+
			"0001-0210-63400081 no'lu Allianz Kasko poliçeniz\n"+
			"Başlangıç Tarihi : 03/01/2026 12:00\n"+
			"34 HSB 518 plakalı\n"+
			"Brüt Prim : 21,372.17 TL\n",
		"kasko.pdf")
	rec, _ := Extract(doc, tag(model.TypeCasco, model.CarrierAllianz))

	assert.Equal(t, "TARKAN ŞAHİN", rec.Insured)
	assert.Equal(t, "0001-0210-63400081", rec.PolicyNo)
	assert.Equal(t, "34HSB518", rec.Plate)
	assert.Equal(t, "21.372,17", rec.Amount)
}

func TestExtract_VehicleSkipsOldPolicyNo(t *testing.T) {
	doc := NewDocument(
		"Trafik Sigortası\n"+
			"Sigortalının Adı Soyadı : EMRE DOĞAN Sigortalının Adresi: İSTANBUL\n"+
			"Eski Poliçe No : 11111111\n"+
			"Poliçe No : 22222222\n"+
			"Başlangıç Tarihi : 07/07/2026\n",
		"axa.pdf")
	rec, _ := Extract(doc, tag(model.TypeTraffic, model.CarrierAXA))

	assert.Equal(t, "22222222", rec.PolicyNo)
	assert.Equal(t, "EMRE DOĞAN", rec.Insured)
}

func TestExtract_TravelPremiumKeepsEuro(t *testing.T) {
	doc := NewDocument(
		"Seyahat Sigortası\n"+
			"Sigortalının Adı Soyadı : SELİN YÜCE Sigortalının Adresi: ANTALYA\n"+
			"Poliçe No : 7654321\n"+
			"Başlangıç Tarihi : 12/08/2026\n"+
			"Ödenecek Prim : 1,250\n",
		"seyahat.pdf")
	rec, _ := Extract(doc, tag(model.TypeTravel, model.CarrierAXA))

	assert.Equal(t, "1,250 EUR", rec.Amount)
}

func TestExtract_HealthPolicyNoFromFilename(t *testing.T) {
	doc := NewDocument(
		"Tamamlayıcı Sağlık Sigortası\n"+
			"7890123 DERYA KORKMAZ KE\n"+
			"Başlangıç Tarihi 01/09/2026\n",
		"POLICE_4455667.pdf")
	rec, _ := Extract(doc, tag(model.TypeHealth, model.CarrierAXA))

	assert.Equal(t, "DERYA KORKMAZ", rec.Insured)
	assert.Equal(t, "7890123", rec.CustomerNo)
	assert.Equal(t, "4455667", rec.PolicyNo)
}

func TestExtract_UnknownTagSafe(t *testing.T) {
	doc := NewDocument("herhangi bir metin", "x.pdf")
	rec, ok := Extract(doc, model.TagUnknown)

	assert.False(t, ok)
	assert.Equal(t, model.Placeholder, rec.Insured)
	assert.Equal(t, "0", rec.Amount)
}

func TestExtract_UnregisteredTagReported(t *testing.T) {
	// A tag with no descriptor must be reported so the caller can count the
	// document as unclassifiable instead of storing placeholders.
	doc := NewDocument("Yangın Sigortası\nPoliçe No: 1\n", "y.pdf")
	_, ok := Extract(doc, model.Tag{Type: model.TypeTraffic, Carrier: "OLMAYAN"})

	assert.False(t, ok)
}

func TestLookup_LayoutFallsBack(t *testing.T) {
	// A layout without its own descriptor resolves to the carrier's default.
	d := Lookup(model.Tag{Type: model.TypeTraffic, Carrier: model.CarrierEthica, Layout: "2030"})
	assert.Same(t, ethicaTraffic, d)

	// The 2026 HDI layout has a dedicated descriptor.
	d = Lookup(model.Tag{Type: model.TypeTraffic, Carrier: model.CarrierHDI, Layout: model.LayoutHDI2026})
	assert.Same(t, hdiTraffic2026, d)
}

func TestScanAmount_TLTokenBounds(t *testing.T) {
	// Tokens outside the plausible premium range are skipped.
	got := scanAmount("TEMİNAT 100.000.000,00 TL ÖDEME 1.234,56 TL DAMGA 5,00 TL")
	assert.Equal(t, "1.234,56", got)

	assert.Equal(t, "", scanAmount("hiç tutar yok"))
}
