package universe

// defaultSymbols is the built-in Russell 1000 membership snapshot,
// deduplicated and sorted. Refreshed lists from the holdings source
// replace this at runtime when available.
var defaultSymbols = []string{
	"A", "AA", "AAL", "AAMC", "AAPL", "ABBV", "ABT", "ACGL", "ACHC", "ACI",
	"ACM", "ACN", "ADBE", "ADI", "ADM", "ADP", "ADSK", "AEE", "AEP", "AES",
	"AFRM", "AGO", "AIT", "AIZ", "AJG", "AKAM", "ALAB", "ALB", "ALGM", "ALGN",
	"ALK", "ALL", "ALNY", "ALSN", "AMAT", "AMCR", "AMD", "AME", "AMG", "AMGN",
	"AMH", "AMKR", "AMP", "AMT", "AMZN", "ANET", "ANSS", "AON", "APA", "APD",
	"APG", "APH", "APP", "APTV", "AR", "ARE", "ASTS", "ATI", "ATO", "ATR",
	"AU", "AUR", "AVB", "AVGO", "AWI", "AWK", "AXP", "AXS", "AXTA", "AYI",
	"AZO", "BA", "BAC", "BAH", "BALL", "BAX", "BBT", "BBWI", "BC", "BDX",
	"BEN", "BEPC", "BF.A", "BFAM", "BHF", "BIIB", "BIO", "BIRK", "BJ", "BK",
	"BKNG", "BKR", "BLD", "BLK", "BMRN", "BMY", "BR", "BRBR", "BRO", "BROS",
	"BSX", "BWA", "BWXT", "C", "CACC", "CAG", "CAH", "CAR", "CARR", "CART",
	"CAT", "CAVA", "CB", "CBOE", "CBRE", "CBSH", "CCI", "CCL", "CDW", "CE",
	"CEG", "CELH", "CFG", "CG", "CGNX", "CHD", "CHE", "CHH", "CHRW", "CHTR",
	"CHWY", "CI", "CIEN", "CL", "CLF", "CLH", "CLVT", "CLX", "CMA", "CMCSA",
	"CME", "CMG", "CMI", "CMS", "CNA", "CNC", "CNH", "CNP", "CNXC", "COF",
	"COHR", "COIN", "COLD", "COLM", "COO", "COP", "COST", "COTY", "CPAY", "CPB",
	"CPNG", "CPRT", "CPT", "CRCL", "CRH", "CRL", "CRM", "CROX", "CRS", "CRUS",
	"CRWD", "CSCO", "CSGP", "CSL", "CSX", "CTAS", "CTSH", "CUBE", "CUZ", "CVNA",
	"CVS", "CVX", "CW", "CXT", "CZR", "DAL", "DASH", "DAY", "DBRG", "DCI",
	"DD", "DDOG", "DDS", "DE", "DECK", "DELL", "DFS", "DGX", "DHI", "DHR",
	"DINO", "DIS", "DJT", "DKNG", "DLB", "DOCU", "DOW", "DOX", "DPZ", "DRI",
	"DRS", "DTE", "DUK", "DUOL", "DV", "DVA", "DXC", "DXCM", "EA", "EBAY",
	"ECG", "ED", "EEFT", "EFX", "EG", "EIX", "EL", "ELAN", "ELF", "ELG",
	"ELS", "ELV", "EME", "EMN", "EMR", "ENPH", "EOG", "EQH", "EQIX", "EQR",
	"ES", "ESAB", "ESI", "ESRT", "ESS", "ETN", "ETSY", "EVA", "EVR", "EW",
	"EXAS", "EXC", "EXLS", "EXP", "EXPE", "EXR", "F", "FANG", "FAST", "FCX",
	"FDS", "FDX", "FE", "FERG", "FFIV", "FI", "FICO", "FIS", "FISV", "FITB",
	"FIVE", "FIX", "FLEX", "FLO", "FLS", "FLUT", "FMC", "FND", "FNF", "FOUR",
	"FOX", "FRC", "FRPT", "FSLR", "FTAI", "FTI", "FTNT", "G", "GD", "GDDY",
	"GE", "GEV", "GILD", "GIS", "GLIBA", "GLOB", "GLW", "GM", "GME", "GMED",
	"GNRC", "GOOG", "GOOGL", "GPC", "GPK", "GS", "GTM", "GWW", "GXO", "HAL",
	"HAS", "HBAN", "HCA", "HD", "HES", "HIG", "HII", "HLNE", "HLT", "HOG",
	"HOLX", "HON", "HOOD", "HPE", "HRB", "HRL", "HSY", "HUBB", "HUBS", "HUM",
	"HUN", "HWM", "HXL", "IAC", "IBKR", "IBM", "ICE", "IDXX", "IEX", "IFF",
	"ILMN", "INCY", "INFA", "INGM", "INGR", "INSM", "INSP", "INTC", "INVH", "IONS",
	"IP", "IPGP", "IQV", "IRDM", "ISRG", "IT", "ITT", "ITW", "IVZ", "J",
	"JAZZ", "JBHT", "JBL", "JCI", "JHG", "JHX", "JKHY", "JLL", "JNJ", "JPM",
	"K", "KBR", "KD", "KDP", "KEY", "KEYS", "KHC", "KIN", "KLAC", "KMB",
	"KMI", "KMPR", "KMX", "KNSL", "KO", "KR", "KRC", "KRMN", "KSS", "KVUE",
	"LBRDA", "LCID", "LDOS", "LEA", "LECO", "LEN", "LFUS", "LHX", "LII", "LIN",
	"LINE", "LITE", "LKQ", "LLY", "LMT", "LNG", "LNW", "LOAR", "LOPE", "LOW",
	"LPX", "LRCX", "LSCC", "LSTR", "LULU", "LVS", "LW", "LYB", "LYFT", "M",
	"MA", "MAA", "MAN", "MAR", "MCD", "MCHP", "MCO", "MDB", "MDLZ", "MDT",
	"MEDP", "MET", "META", "MHK", "MIDD", "MKC", "MKSI", "MKTX", "MLI", "MLM",
	"MMC", "MMM", "MNST", "MO", "MOH", "MORN", "MOS", "MP", "MPC", "MPWR",
	"MRK", "MRVL", "MS", "MSA", "MSCI", "MSFT", "MSI", "MSTR", "MTB", "MTD",
	"MTSI", "MTX", "MTZ", "MU", "MUSA", "NCLH", "NDAQ", "NDSN", "NEE", "NEM",
	"NET", "NFLX", "NI", "NIQ", "NKE", "NOC", "NOV", "NOW", "NRG", "NSA",
	"NSC", "NTAP", "NTRA", "NTRS", "NU", "NUE", "NVDA", "NVST", "NVT", "NWL",
	"NWS", "NXPI", "NXST", "O", "OC", "ODFL", "OGE", "OGN", "OKE", "OKTA",
	"OMF", "ON", "ONON", "ORCL", "ORLY", "OSK", "OTIS", "OWL", "OXY", "PATH",
	"PAYC", "PAYX", "PCAR", "PCG", "PCTY", "PEGA", "PEN", "PEP", "PFE", "PFGC",
	"PG", "PGR", "PH", "PINS", "PKI", "PLD", "PLNT", "PLTR", "PM", "PNC",
	"PNFP", "PODD", "POOL", "POST", "PPC", "PPG", "PPL", "PRGO", "PRMB", "PRU",
	"PSA", "PSN", "PSO", "PSTG", "PSX", "PTC", "PWR", "QCOM", "QRVO", "QS",
	"QXO", "RAL", "RARE", "RBC", "RBLX", "RDDT", "REG", "REGN", "RF", "RGA",
	"RH", "RHI", "RKLB", "RKT", "RL", "RLI", "ROIV", "ROK", "ROKU", "ROP",
	"ROST", "RPM", "RS", "RSG", "RTX", "RVMD", "RYAN", "RYN", "S", "SAIC",
	"SAM", "SBAC", "SCCO", "SCHW", "SEB", "SF", "SFM", "SGI", "SHC", "SHW",
	"SJM", "SLB", "SLGN", "SLM", "SMCI", "SMMT", "SMWB", "SNDK", "SNOW", "SNPS",
	"SNX", "SO", "SOFI", "SON", "SPA", "SPG", "SPGI", "SRE", "SRPT", "ST",
	"STI", "STT", "STWD", "STZ", "SW", "SWN", "SYF", "SYK", "T", "TAP",
	"TDG", "TEAM", "TECH", "TEM", "TER", "TEX", "TFC", "TFX", "TGT", "THC",
	"THO", "TIGO", "TJX", "TLN", "TMO", "TMUS", "TNL", "TOL", "TPL", "TPR",
	"TREX", "TRMB", "TROW", "TSLA", "TSN", "TTD", "TW", "TWLO", "TXN", "TXRH",
	"TXT", "TYL", "U", "UA", "UAL", "UDR", "UHAL", "UHS", "UI", "ULTA",
	"UNH", "UNM", "UNP", "UPS", "URI", "USB", "UTHR", "UWMC", "V", "VEEV",
	"VICI", "VIK", "VIRT", "VKTX", "VLO", "VMI", "VNOM", "VRSK", "VRSN", "VRT",
	"VRTV", "VRTX", "VST", "VTRS", "VVV", "VZ", "W", "WAB", "WAL", "WAT",
	"WBD", "WCC", "WD", "WDC", "WEC", "WELL", "WEN", "WF", "WFC", "WFRD",
	"WH", "WHR", "WING", "WLK", "WM", "WMB", "WMT", "WR", "WSC", "WSM",
	"WSO", "WST", "WTRG", "WU", "WWD", "WY", "WYNN", "XEL", "XPO", "XRAY",
	"XYL", "XYZ", "YUM", "ZBH", "ZION", "ZS", "ZTS",
}
