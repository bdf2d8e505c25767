package cities

// preloadTable returns the immutable city-to-airport table shipped with the
// binary. Keys are normalized (lowercase, collapsed whitespace). Cities
// with several airports map to their main international gateway.
func preloadTable() map[string]string {
	return map[string]string{
		"abu dhabi":        "AUH",
		"accra":            "ACC",
		"addis ababa":      "ADD",
		"adelaide":         "ADL",
		"algiers":          "ALG",
		"almaty":           "ALA",
		"amman":            "AMM",
		"amsterdam":        "AMS",
		"anchorage":        "ANC",
		"ankara":           "ESB",
		"antalya":          "AYT",
		"asuncion":         "ASU",
		"athens":           "ATH",
		"atlanta":          "ATL",
		"auckland":         "AKL",
		"austin":           "AUS",
		"baghdad":          "BGW",
		"baku":             "GYD",
		"baltimore":        "BWI",
		"bangalore":        "BLR",
		"bangkok":          "BKK",
		"barcelona":        "BCN",
		"beijing":          "PEK",
		"beirut":           "BEY",
		"belgrade":         "BEG",
		"berlin":           "BER",
		"bilbao":           "BIO",
		"birmingham":       "BHX",
		"bogota":           "BOG",
		"boston":           "BOS",
		"brasilia":         "BSB",
		"bratislava":       "BTS",
		"brisbane":         "BNE",
		"brussels":         "BRU",
		"bucharest":        "OTP",
		"budapest":         "BUD",
		"buenos aires":     "EZE",
		"buffalo":          "BUF",
		"cairo":            "CAI",
		"calgary":          "YYC",
		"cancun":           "CUN",
		"cape town":        "CPT",
		"caracas":          "CCS",
		"cardiff":          "CWL",
		"casablanca":       "CMN",
		"charlotte":        "CLT",
		"chengdu":          "TFU",
		"chennai":          "MAA",
		"chicago":          "ORD",
		"christchurch":     "CHC",
		"cincinnati":       "CVG",
		"cleveland":        "CLE",
		"cologne":          "CGN",
		"colombo":          "CMB",
		"columbus":         "CMH",
		"copenhagen":       "CPH",
		"dakar":            "DSS",
		"dallas":           "DFW",
		"damascus":         "DAM",
		"dar es salaam":    "DAR",
		"delhi":            "DEL",
		"denver":           "DEN",
		"detroit":          "DTW",
		"dhaka":            "DAC",
		"doha":             "DOH",
		"dubai":            "DXB",
		"dublin":           "DUB",
		"dusseldorf":       "DUS",
		"edinburgh":        "EDI",
		"edmonton":         "YEG",
		"faro":             "FAO",
		"florence":         "FLR",
		"fort lauderdale":  "FLL",
		"frankfurt":        "FRA",
		"fukuoka":          "FUK",
		"geneva":           "GVA",
		"glasgow":          "GLA",
		"gothenburg":       "GOT",
		"guadalajara":      "GDL",
		"guangzhou":        "CAN",
		"guatemala city":   "GUA",
		"hamburg":          "HAM",
		"hanoi":            "HAN",
		"harare":           "HRE",
		"havana":           "HAV",
		"helsinki":         "HEL",
		"ho chi minh city": "SGN",
		"hong kong":        "HKG",
		"honolulu":         "HNL",
		"houston":          "IAH",
		"hyderabad":        "HYD",
		"indianapolis":     "IND",
		"islamabad":        "ISB",
		"istanbul":         "IST",
		"jakarta":          "CGK",
		"jeddah":           "JED",
		"johannesburg":     "JNB",
		"kansas city":      "MCI",
		"karachi":          "KHI",
		"kathmandu":        "KTM",
		"kiev":             "KBP",
		"kigali":           "KGL",
		"kingston":         "KIN",
		"kolkata":          "CCU",
		"krakow":           "KRK",
		"kuala lumpur":     "KUL",
		"kuwait city":      "KWI",
		"la paz":           "LPB",
		"lagos":            "LOS",
		"lahore":           "LHE",
		"las vegas":        "LAS",
		"lima":             "LIM",
		"lisbon":           "LIS",
		"liverpool":        "LPL",
		"ljubljana":        "LJU",
		"london":           "LHR",
		"los angeles":      "LAX",
		"luanda":           "LAD",
		"lusaka":           "LUN",
		"luxembourg":       "LUX",
		"lyon":             "LYS",
		"madrid":           "MAD",
		"malaga":           "AGP",
		"male":             "MLE",
		"manchester":       "MAN",
		"manila":           "MNL",
		"marrakesh":        "RAK",
		"marseille":        "MRS",
		"melbourne":        "MEL",
		"memphis":          "MEM",
		"mexico city":      "MEX",
		"miami":            "MIA",
		"milan":            "MXP",
		"milwaukee":        "MKE",
		"minneapolis":      "MSP",
		"minsk":            "MSQ",
		"montevideo":       "MVD",
		"montreal":         "YUL",
		"moscow":           "SVO",
		"mumbai":           "BOM",
		"munich":           "MUC",
		"muscat":           "MCT",
		"nagoya":           "NGO",
		"nairobi":          "NBO",
		"naples":           "NAP",
		"nashville":        "BNA",
		"new orleans":      "MSY",
		"new york":         "JFK",
		"new york city":    "JFK",
		"newark":           "EWR",
		"nice":             "NCE",
		"nicosia":          "LCA",
		"orlando":          "MCO",
		"osaka":            "KIX",
		"oslo":             "OSL",
		"ottawa":           "YOW",
		"palma de mallorca": "PMI",
		"panama city":      "PTY",
		"paris":            "CDG",
		"perth":            "PER",
		"philadelphia":     "PHL",
		"phnom penh":       "PNH",
		"phoenix":          "PHX",
		"pittsburgh":       "PIT",
		"porto":            "OPO",
		"portland":         "PDX",
		"prague":           "PRG",
		"quito":            "UIO",
		"raleigh":          "RDU",
		"reykjavik":        "KEF",
		"riga":             "RIX",
		"rio de janeiro":   "GIG",
		"riyadh":           "RUH",
		"rome":             "FCO",
		"rotterdam":        "RTM",
		"saint petersburg": "LED",
		"salt lake city":   "SLC",
		"san antonio":      "SAT",
		"san diego":        "SAN",
		"san francisco":    "SFO",
		"san jose":         "SJC",
		"san juan":         "SJU",
		"san salvador":     "SAL",
		"santiago":         "SCL",
		"santo domingo":    "SDQ",
		"sao paulo":        "GRU",
		"sapporo":          "CTS",
		"seattle":          "SEA",
		"seoul":            "ICN",
		"seville":          "SVQ",
		"shanghai":         "PVG",
		"shenzhen":         "SZX",
		"singapore":        "SIN",
		"sofia":            "SOF",
		"stockholm":        "ARN",
		"stuttgart":        "STR",
		"sydney":           "SYD",
		"taipei":           "TPE",
		"tallinn":          "TLL",
		"tampa":            "TPA",
		"tashkent":         "TAS",
		"tbilisi":          "TBS",
		"tehran":           "IKA",
		"tel aviv":         "TLV",
		"thessaloniki":     "SKG",
		"tokyo":            "NRT",
		"toronto":          "YYZ",
		"tunis":            "TUN",
		"valencia":         "VLC",
		"vancouver":        "YVR",
		"venice":           "VCE",
		"vienna":           "VIE",
		"vilnius":          "VNO",
		"warsaw":           "WAW",
		"washington":       "IAD",
		"wellington":       "WLG",
		"winnipeg":         "YWG",
		"yerevan":          "EVN",
		"zagreb":           "ZAG",
		"zurich":           "ZRH",
	}
}
