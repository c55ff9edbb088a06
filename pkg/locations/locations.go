// Package locations is the static district and town pick-list used for
// shop addresses.
package locations

import (
	"sort"
	"strings"
)

var townsByDistrict = map[string][]string{
	"Ampara":       {"Ampara", "Akkaraipattu", "Kalmunai", "Sainthamaruthu", "Pottuvil", "Dehiattakandiya", "Uhana"},
	"Anuradhapura": {"Anuradhapura", "Kekirawa", "Medawachchiya", "Thambuttegama", "Eppawala", "Mihintale", "Nochchiyagama"},
	"Badulla":      {"Badulla", "Bandarawela", "Haputale", "Welimada", "Mahiyanganaya", "Passara", "Ella"},
	"Batticaloa":   {"Batticaloa", "Eravur", "Kattankudy", "Valaichchenai", "Chenkalady", "Kaluwanchikudy"},
	"Colombo":      {"Colombo", "Dehiwala-Mount Lavinia", "Moratuwa", "Sri Jayawardenepura Kotte", "Maharagama", "Kaduwela", "Homagama", "Kolonnawa", "Kesbewa", "Avissawella", "Padukka"},
	"Galle":        {"Galle", "Ambalangoda", "Hikkaduwa", "Elpitiya", "Baddegama", "Karapitiya", "Bentota", "Udugama"},
	"Gampaha":      {"Gampaha", "Negombo", "Ja-Ela", "Wattala", "Kadawatha", "Kiribathgoda", "Minuwangoda", "Nittambuwa", "Veyangoda", "Divulapitiya", "Kelaniya"},
	"Hambantota":   {"Hambantota", "Tangalle", "Tissamaharama", "Ambalantota", "Beliatta", "Weeraketiya"},
	"Jaffna":       {"Jaffna", "Chavakachcheri", "Point Pedro", "Nallur", "Kopay", "Valvettithurai"},
	"Kalutara":     {"Kalutara", "Panadura", "Horana", "Beruwala", "Aluthgama", "Matugama", "Wadduwa", "Bandaragama"},
	"Kandy":        {"Kandy", "Peradeniya", "Katugastota", "Gampola", "Nawalapitiya", "Kundasale", "Digana", "Akurana", "Pilimathalawa"},
	"Kegalle":      {"Kegalle", "Mawanella", "Warakapola", "Rambukkana", "Ruwanwella", "Dehiowita", "Yatiyantota"},
	"Kilinochchi":  {"Kilinochchi", "Paranthan", "Pallai", "Poonakary"},
	"Kurunegala":   {"Kurunegala", "Kuliyapitiya", "Narammala", "Pannala", "Wariyapola", "Nikaweratiya", "Polgahawela", "Mawathagama", "Alawwa"},
	"Mannar":       {"Mannar", "Madhu", "Murunkan", "Pesalai", "Nanattan"},
	"Matale":       {"Matale", "Dambulla", "Galewela", "Ukuwela", "Rattota", "Naula", "Sigiriya"},
	"Matara":       {"Matara", "Weligama", "Akuressa", "Dikwella", "Hakmana", "Kamburupitiya", "Deniyaya"},
	"Monaragala":   {"Monaragala", "Wellawaya", "Bibile", "Buttala", "Kataragama", "Siyambalanduwa"},
	"Mullaitivu":   {"Mullaitivu", "Puthukkudiyiruppu", "Oddusuddan", "Mankulam"},
	"Nuwara Eliya": {"Nuwara Eliya", "Hatton", "Talawakele", "Ginigathhena", "Maskeliya", "Nanu Oya", "Walapane"},
	"Polonnaruwa":  {"Polonnaruwa", "Kaduruwela", "Hingurakgoda", "Medirigiriya", "Dimbulagala", "Aralaganwila"},
	"Puttalam":     {"Puttalam", "Chilaw", "Wennappuwa", "Marawila", "Nattandiya", "Dankotuwa", "Anamaduwa", "Kalpitiya"},
	"Ratnapura":    {"Ratnapura", "Embilipitiya", "Balangoda", "Pelmadulla", "Eheliyagoda", "Kuruwita", "Kahawatta"},
	"Trincomalee":  {"Trincomalee", "Kinniya", "Mutur", "Kantale", "Nilaveli", "Kuchchaveli"},
	"Vavuniya":     {"Vavuniya", "Cheddikulam", "Nedunkeni", "Omanthai"},
}

// Districts returns the district names in alphabetical order.
func Districts() []string {
	out := make([]string, 0, len(townsByDistrict))
	for d := range townsByDistrict {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Canonical returns the district name as listed, matching case-insensitively.
func Canonical(district string) (string, bool) {
	district = strings.TrimSpace(district)
	for d := range townsByDistrict {
		if strings.EqualFold(d, district) {
			return d, true
		}
	}
	return "", false
}

// IsDistrict reports whether district is a known district.
func IsDistrict(district string) bool {
	_, ok := Canonical(district)
	return ok
}

// Towns returns the towns of a district, sorted. ok is false for unknown
// districts.
func Towns(district string) ([]string, bool) {
	name, ok := Canonical(district)
	if !ok {
		return nil, false
	}
	towns := append([]string(nil), townsByDistrict[name]...)
	sort.Strings(towns)
	return towns, true
}

// IsTownOf reports whether town belongs to district.
func IsTownOf(district, town string) bool {
	towns, ok := Towns(district)
	if !ok {
		return false
	}
	town = strings.TrimSpace(town)
	for _, t := range towns {
		if strings.EqualFold(t, town) {
			return true
		}
	}
	return false
}
