package i18n

import "golang.org/x/text/language"

var translations = map[language.Tag]map[string]string{
	language.Czech: {
		"Wizard":                  "Průvodce",
		"Live Adjust Z":           "Doladění osy Z",
		"Auto Home":               "Domovská pozice",
		"Mesh Bed Leveling":       "Kalibrace podložky",
		"SelfTest":                "Selftest",
		"First Layer Calibration": "Kalibrace 1. vrstvy",
		"Test FANs":               "Test ventilátorů",
		"Test XYZ-Axis":           "Test os XYZ",
		"Test heaters":            "Test topení",
		"Test FANs fine":          "Jemný test ventilátorů",
		"Test Abort":              "Přerušit test",
		"Disable Steppers":        "Vypnout motory",
		"Factory Reset":           "Tovární nastavení",
		"Save Crash Dump":         "Uložit crash dump",
		"Change Filament":         "Výměna filamentu",
		"Menu Timeout":            "Časový limit menu",
		"Sound Mode":              "Režim zvuku",
		"Once":                    "Jednou",
		"Loud":                    "Hlasitý",
		"Silent":                  "Tichý",
		"Assist":                  "Asistent",
		"Sort files by":           "Řadit soubory",
		"Name":                    "Jméno",
		"Time":                    "Čas",
		"Sound Volume":            "Hlasitost",
		"Filament sensor":         "Filament senzor",
		"Off":                     "Vyp",
		"On":                      "Zap",
		"Settings":                "Nastavení",
		"Scan me for details":     "Naskenuj pro podrobnosti",
		"HOTEND THERMAL RUNAWAY":  "TEPLOTNÍ ÚNIK TRYSKY",
		"HEATBED THERMAL RUNAWAY": "TEPLOTNÍ ÚNIK PODLOŽKY",
		"EMERGENCY STOP":          "NOUZOVÉ ZASTAVENÍ",
	},
	language.German: {
		"Wizard":                  "Assistent",
		"Live Adjust Z":           "Z einstellen",
		"Auto Home":               "Auto Home",
		"Mesh Bed Leveling":       "Mesh Bett Nivellierung",
		"SelfTest":                "Selbsttest",
		"First Layer Calibration": "Erste Schicht Kalibrierung",
		"Test FANs":               "Lüfter testen",
		"Test XYZ-Axis":           "XYZ-Achsen testen",
		"Test heaters":            "Heizungen testen",
		"Test FANs fine":          "Lüfter fein testen",
		"Test Abort":              "Test abbrechen",
		"Disable Steppers":        "Motoren aus",
		"Factory Reset":           "Werkseinstellungen",
		"Save Crash Dump":         "Crash Dump speichern",
		"Change Filament":         "Filament wechseln",
		"Menu Timeout":            "Menü Timeout",
		"Sound Mode":              "Sound Modus",
		"Once":                    "Einmal",
		"Loud":                    "Laut",
		"Silent":                  "Stumm",
		"Assist":                  "Hilfe",
		"Sort files by":           "Dateien sortieren",
		"Name":                    "Name",
		"Time":                    "Zeit",
		"Sound Volume":            "Lautstärke",
		"Filament sensor":         "Filamentsensor",
		"Off":                     "Aus",
		"On":                      "An",
		"Settings":                "Einstellungen",
		"Scan me for details":     "Für Details scannen",
		"EMERGENCY STOP":          "NOT-AUS",
	},
}
