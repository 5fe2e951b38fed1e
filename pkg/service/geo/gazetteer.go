package geo

import "github.com/edopt/chatbot/pkg/domain/model"

// towns maps lower-case New Hampshire town names to their centers
var towns = map[string]model.Coordinates{
	"acworth":           {Latitude: 43.2179, Longitude: -72.292},
	"albany":            {Latitude: 43.9578, Longitude: -71.1676},
	"alexandria":        {Latitude: 43.6115, Longitude: -71.7929},
	"allenstown":        {Latitude: 43.1581, Longitude: -71.407},
	"alstead":           {Latitude: 43.149, Longitude: -72.3612},
	"alton":             {Latitude: 43.4534, Longitude: -71.2176},
	"amherst":           {Latitude: 42.8615, Longitude: -71.6256},
	"andover":           {Latitude: 43.4367, Longitude: -71.8234},
	"antrim":            {Latitude: 43.0309, Longitude: -71.9389},
	"ashland":           {Latitude: 43.6953, Longitude: -71.6304},
	"atkinson":          {Latitude: 42.8384, Longitude: -71.147},
	"auburn":            {Latitude: 42.9965, Longitude: -71.3484},
	"barnstead":         {Latitude: 43.3339, Longitude: -71.2928},
	"barrington":        {Latitude: 43.2229, Longitude: -71.047},
	"bartlett":          {Latitude: 44.0781, Longitude: -71.2828},
	"bath":              {Latitude: 44.1669, Longitude: -71.9661},
	"bedford":           {Latitude: 42.9465, Longitude: -71.5159},
	"belmont":           {Latitude: 43.4454, Longitude: -71.4776},
	"bennington":        {Latitude: 43.0031, Longitude: -71.9345},
	"benton":            {Latitude: 44.1031, Longitude: -71.9017},
	"berlin":            {Latitude: 44.4688, Longitude: -71.1854},
	"bethlehem":         {Latitude: 44.2803, Longitude: -71.6876},
	"boscawen":          {Latitude: 43.3151, Longitude: -71.6209},
	"bow":               {Latitude: 43.132, Longitude: -71.5492},
	"bradford":          {Latitude: 43.2701, Longitude: -71.96},
	"brentwood":         {Latitude: 42.9787, Longitude: -71.0728},
	"bridgewater":       {Latitude: 43.6384, Longitude: -71.7365},
	"bristol":           {Latitude: 43.5912, Longitude: -71.7368},
	"brookfield":        {Latitude: 43.5589, Longitude: -71.1262},
	"brookline":         {Latitude: 42.7348, Longitude: -71.6581},
	"campton":           {Latitude: 43.8703, Longitude: -71.6365},
	"canaan":            {Latitude: 43.6476, Longitude: -72.0118},
	"candia":            {Latitude: 43.0779, Longitude: -71.2767},
	"canterbury":        {Latitude: 43.337, Longitude: -71.5654},
	"carroll":           {Latitude: 44.2984, Longitude: -71.5406},
	"center harbor":     {Latitude: 43.7098, Longitude: -71.462},
	"charlestown":       {Latitude: 43.2387, Longitude: -72.4243},
	"chatham":           {Latitude: 44.1645, Longitude: -71.0112},
	"chester":           {Latitude: 42.9568, Longitude: -71.2573},
	"chesterfield":      {Latitude: 42.8873, Longitude: -72.4704},
	"chichester":        {Latitude: 43.2492, Longitude: -71.3998},
	"claremont":         {Latitude: 43.3767, Longitude: -72.3468},
	"clarksville":       {Latitude: 45.0167, Longitude: -71.6265},
	"colebrook":         {Latitude: 44.8945, Longitude: -71.4959},
	"columbia":          {Latitude: 44.8528, Longitude: -71.5515},
	"concord":           {Latitude: 43.2081, Longitude: -71.5376},
	"conway":            {Latitude: 43.9792, Longitude: -71.1203},
	"cornish":           {Latitude: 43.4648, Longitude: -72.3684},
	"croydon":           {Latitude: 43.4506, Longitude: -72.1634},
	"dalton":            {Latitude: 44.4151, Longitude: -71.6951},
	"danbury":           {Latitude: 43.5259, Longitude: -71.8618},
	"danville":          {Latitude: 42.9126, Longitude: -71.1245},
	"deerfield":         {Latitude: 43.146, Longitude: -71.2164},
	"deering":           {Latitude: 43.0731, Longitude: -71.8445},
	"derry":             {Latitude: 42.8806, Longitude: -71.3273},
	"dover":             {Latitude: 43.1979, Longitude: -70.8737},
	"dublin":            {Latitude: 42.9076, Longitude: -72.0626},
	"dummer":            {Latitude: 44.6103, Longitude: -71.2012},
	"dunbarton":         {Latitude: 43.1026, Longitude: -71.6165},
	"durham":            {Latitude: 43.1339, Longitude: -70.9264},
	"east kingston":     {Latitude: 42.9256, Longitude: -70.9431},
	"easton":            {Latitude: 44.1481, Longitude: -71.7901},
	"eaton":             {Latitude: 43.9098, Longitude: -71.0812},
	"effingham":         {Latitude: 43.7612, Longitude: -70.9967},
	"enfield":           {Latitude: 43.6406, Longitude: -72.1479},
	"epping":            {Latitude: 43.0334, Longitude: -71.0742},
	"epsom":             {Latitude: 43.2229, Longitude: -71.332},
	"errol":             {Latitude: 44.7814, Longitude: -71.1381},
	"exeter":            {Latitude: 42.9814, Longitude: -70.9478},
	"farmington":        {Latitude: 43.3898, Longitude: -71.0651},
	"fitzwilliam":       {Latitude: 42.7806, Longitude: -72.1418},
	"francestown":       {Latitude: 42.9873, Longitude: -71.8129},
	"franconia":         {Latitude: 44.227, Longitude: -71.7479},
	"franklin":          {Latitude: 43.4442, Longitude: -71.6473},
	"freedom":           {Latitude: 43.8123, Longitude: -71.0356},
	"fremont":           {Latitude: 42.9909, Longitude: -71.1426},
	"gilford":           {Latitude: 43.5476, Longitude: -71.4067},
	"gilmanton":         {Latitude: 43.4242, Longitude: -71.4145},
	"gilsum":            {Latitude: 43.0484, Longitude: -72.2629},
	"goffstown":         {Latitude: 43.0203, Longitude: -71.6003},
	"gorham":            {Latitude: 44.3878, Longitude: -71.1731},
	"goshen":            {Latitude: 43.3012, Longitude: -72.1476},
	"grafton":           {Latitude: 43.5587, Longitude: -71.9437},
	"grantham":          {Latitude: 43.4895, Longitude: -72.1376},
	"greenfield":        {Latitude: 42.9506, Longitude: -71.8723},
	"greenland":         {Latitude: 43.0336, Longitude: -70.8433},
	"greenville":        {Latitude: 42.7673, Longitude: -71.8123},
	"groton":            {Latitude: 43.7015, Longitude: -71.8356},
	"hampstead":         {Latitude: 42.8745, Longitude: -71.1811},
	"hampton":           {Latitude: 42.9376, Longitude: -70.8389},
	"hampton falls":     {Latitude: 42.9162, Longitude: -70.8637},
	"hancock":           {Latitude: 42.9729, Longitude: -71.9837},
	"hanover":           {Latitude: 43.7022, Longitude: -72.2895},
	"harrisville":       {Latitude: 42.9451, Longitude: -72.0965},
	"hart's location":   {Latitude: 44.1045, Longitude: -71.3473},
	"haverhill":         {Latitude: 44.0345, Longitude: -72.0637},
	"hebron":            {Latitude: 43.6937, Longitude: -71.8056},
	"henniker":          {Latitude: 43.1798, Longitude: -71.8223},
	"hill":              {Latitude: 43.5242, Longitude: -71.7012},
	"hillsborough":      {Latitude: 43.1137, Longitude: -71.8956},
	"hinsdale":          {Latitude: 42.7862, Longitude: -72.4865},
	"holderness":        {Latitude: 43.732, Longitude: -71.5884},
	"hollis":            {Latitude: 42.7431, Longitude: -71.592},
	"hooksett":          {Latitude: 43.0967, Longitude: -71.4651},
	"hopkinton":         {Latitude: 43.1915, Longitude: -71.6754},
	"hudson":            {Latitude: 42.7648, Longitude: -71.4398},
	"jackson":           {Latitude: 44.1442, Longitude: -71.1806},
	"jaffrey":           {Latitude: 42.814, Longitude: -72.0231},
	"jefferson":         {Latitude: 44.4192, Longitude: -71.4745},
	"keene":             {Latitude: 42.9337, Longitude: -72.2781},
	"kensington":        {Latitude: 42.927, Longitude: -70.9439},
	"kingston":          {Latitude: 42.9365, Longitude: -71.0534},
	"laconia":           {Latitude: 43.5279, Longitude: -71.4704},
	"lancaster":         {Latitude: 44.489, Longitude: -71.5693},
	"landaff":           {Latitude: 44.1542, Longitude: -71.8912},
	"langdon":           {Latitude: 43.1673, Longitude: -72.3793},
	"lebanon":           {Latitude: 43.6423, Longitude: -72.2518},
	"lee":               {Latitude: 43.1231, Longitude: -71.0115},
	"lempster":          {Latitude: 43.2384, Longitude: -72.2106},
	"lincoln":           {Latitude: 44.0456, Longitude: -71.6704},
	"lisbon":            {Latitude: 44.2134, Longitude: -71.9112},
	"litchfield":        {Latitude: 42.8443, Longitude: -71.4798},
	"littleton":         {Latitude: 44.3062, Longitude: -71.7701},
	"londonderry":       {Latitude: 42.8651, Longitude: -71.374},
	"loudon":            {Latitude: 43.2856, Longitude: -71.4673},
	"lyman":             {Latitude: 44.2495, Longitude: -71.9493},
	"lyme":              {Latitude: 43.8095, Longitude: -72.1559},
	"lyndeborough":      {Latitude: 42.9076, Longitude: -71.7665},
	"madbury":           {Latitude: 43.1693, Longitude: -70.9242},
	"madison":           {Latitude: 43.8992, Longitude: -71.1484},
	"manchester":        {Latitude: 42.9956, Longitude: -71.4548},
	"marlborough":       {Latitude: 42.904, Longitude: -72.2079},
	"marlow":            {Latitude: 43.1159, Longitude: -72.197},
	"mason":             {Latitude: 42.7437, Longitude: -71.7687},
	"meredith":          {Latitude: 43.6576, Longitude: -71.5004},
	"merrimack":         {Latitude: 42.8681, Longitude: -71.4948},
	"middleton":         {Latitude: 43.4751, Longitude: -71.0692},
	"milan":             {Latitude: 44.5734, Longitude: -71.1851},
	"milford":           {Latitude: 42.8353, Longitude: -71.6489},
	"milton":            {Latitude: 43.4098, Longitude: -70.9884},
	"monroe":            {Latitude: 44.2603, Longitude: -72.0476},
	"mont vernon":       {Latitude: 42.8945, Longitude: -71.6742},
	"moultonborough":    {Latitude: 43.7387, Longitude: -71.3967},
	"nashua":            {Latitude: 42.7654, Longitude: -71.4676},
	"nelson":            {Latitude: 42.9706, Longitude: -72.1229},
	"new boston":        {Latitude: 42.9762, Longitude: -71.6939},
	"new castle":        {Latitude: 43.0723, Longitude: -70.7162},
	"new durham":        {Latitude: 43.4368, Longitude: -71.1723},
	"new hampton":       {Latitude: 43.6059, Longitude: -71.654},
	"new ipswich":       {Latitude: 42.7481, Longitude: -71.8543},
	"new london":        {Latitude: 43.414, Longitude: -71.9851},
	"newbury":           {Latitude: 43.3215, Longitude: -72.0359},
	"newfields":         {Latitude: 43.037, Longitude: -70.9384},
	"newington":         {Latitude: 43.1001, Longitude: -70.8337},
	"newmarket":         {Latitude: 43.0829, Longitude: -70.9351},
	"newport":           {Latitude: 43.3653, Longitude: -72.1734},
	"newton":            {Latitude: 42.8695, Longitude: -71.0328},
	"north hampton":     {Latitude: 42.9726, Longitude: -70.8298},
	"northfield":        {Latitude: 43.4331, Longitude: -71.5923},
	"northumberland":    {Latitude: 44.5634, Longitude: -71.5584},
	"northwood":         {Latitude: 43.1942, Longitude: -71.1509},
	"nottingham":        {Latitude: 43.1145, Longitude: -71.0998},
	"orange":            {Latitude: 43.6545, Longitude: -71.9715},
	"orford":            {Latitude: 43.9053, Longitude: -72.137},
	"ossipee":           {Latitude: 43.6853, Longitude: -71.1167},
	"pelham":            {Latitude: 42.7345, Longitude: -71.3247},
	"pembroke":          {Latitude: 43.1467, Longitude: -71.4576},
	"peterborough":      {Latitude: 42.8778, Longitude: -71.9517},
	"piermont":          {Latitude: 43.9698, Longitude: -72.0804},
	"pittsburg":         {Latitude: 45.0512, Longitude: -71.3914},
	"pittsfield":        {Latitude: 43.3059, Longitude: -71.3242},
	"plainfield":        {Latitude: 43.534, Longitude: -72.3515},
	"plaistow":          {Latitude: 42.8365, Longitude: -71.0948},
	"plymouth":          {Latitude: 43.757, Longitude: -71.6881},
	"portsmouth":        {Latitude: 43.0718, Longitude: -70.7626},
	"randolph":          {Latitude: 44.3753, Longitude: -71.2798},
	"raymond":           {Latitude: 43.0362, Longitude: -71.1834},
	"richmond":          {Latitude: 42.7548, Longitude: -72.2718},
	"rindge":            {Latitude: 42.7512, Longitude: -72.0098},
	"rochester":         {Latitude: 43.3045, Longitude: -70.9756},
	"rollinsford":       {Latitude: 43.2362, Longitude: -70.8203},
	"roxbury":           {Latitude: 42.9248, Longitude: -72.2092},
	"rumney":            {Latitude: 43.8056, Longitude: -71.8126},
	"rye":               {Latitude: 43.0134, Longitude: -70.7709},
	"salem":             {Latitude: 42.7884, Longitude: -71.2009},
	"salisbury":         {Latitude: 43.3801, Longitude: -71.717},
	"sanbornton":        {Latitude: 43.4892, Longitude: -71.5823},
	"sandown":           {Latitude: 42.9287, Longitude: -71.187},
	"sandwich":          {Latitude: 43.7904, Longitude: -71.4112},
	"seabrook":          {Latitude: 42.8948, Longitude: -70.8712},
	"sharon":            {Latitude: 42.8131, Longitude: -71.9156},
	"shelburne":         {Latitude: 44.4012, Longitude: -71.0748},
	"somerville":        {Latitude: 43.2645, Longitude: -71.7145},
	"south hampton":     {Latitude: 42.8809, Longitude: -70.9626},
	"springfield":       {Latitude: 43.4951, Longitude: -72.0334},
	"stark":             {Latitude: 44.6014, Longitude: -71.4129},
	"stewartstown":      {Latitude: 44.9967, Longitude: -71.5081},
	"stoddard":          {Latitude: 43.0787, Longitude: -72.1145},
	"strafford":         {Latitude: 43.327, Longitude: -71.1842},
	"stratford":         {Latitude: 44.6531, Longitude: -71.5556},
	"stratham":          {Latitude: 43.024, Longitude: -70.9137},
	"sugar hill":        {Latitude: 44.2153, Longitude: -71.7995},
	"sullivan":          {Latitude: 43.0131, Longitude: -72.2209},
	"sunapee":           {Latitude: 43.3876, Longitude: -72.0879},
	"surry":             {Latitude: 43.0179, Longitude: -72.3212},
	"sutton":            {Latitude: 43.3631, Longitude: -71.9495},
	"swanzey":           {Latitude: 42.8698, Longitude: -72.2818},
	"tamworth":          {Latitude: 43.8598, Longitude: -71.2631},
	"temple":            {Latitude: 42.8181, Longitude: -71.8515},
	"thornton":          {Latitude: 43.8929, Longitude: -71.6759},
	"tilton":            {Latitude: 43.4423, Longitude: -71.5892},
	"troy":              {Latitude: 42.8239, Longitude: -72.1812},
	"tuftonboro":        {Latitude: 43.6965, Longitude: -71.222},
	"unity":             {Latitude: 43.2934, Longitude: -72.2604},
	"wakefield":         {Latitude: 43.5681, Longitude: -71.0301},
	"walpole":           {Latitude: 43.0795, Longitude: -72.4259},
	"warner":            {Latitude: 43.2809, Longitude: -71.8165},
	"warren":            {Latitude: 43.9231, Longitude: -71.892},
	"washington":        {Latitude: 43.1759, Longitude: -72.0968},
	"waterville valley": {Latitude: 44.0306, Longitude: -71.4998},
	"weare":             {Latitude: 43.0948, Longitude: -71.7306},
	"webster":           {Latitude: 43.3292, Longitude: -71.7179},
	"wentworth":         {Latitude: 43.8698, Longitude: -71.9115},
	"westmoreland":      {Latitude: 42.962, Longitude: -72.4423},
	"whitefield":        {Latitude: 44.3731, Longitude: -71.6101},
	"wilmot":            {Latitude: 43.4517, Longitude: -71.9137},
	"wilton":            {Latitude: 42.8431, Longitude: -71.7351},
	"winchester":        {Latitude: 42.7734, Longitude: -72.3831},
	"windham":           {Latitude: 42.8006, Longitude: -71.3042},
	"windsor":           {Latitude: 43.1356, Longitude: -72.0006},
	"wolfeboro":         {Latitude: 43.5859, Longitude: -71.2076},
	"woodstock":         {Latitude: 43.9776, Longitude: -71.6851},
}

// counties maps lower-case county names to their centers and member towns
var counties = map[string]county{
	"belknap": {
		center: model.Coordinates{Latitude: 43.52, Longitude: -71.4234},
		towns: []string{
			"alton", "barnstead", "belmont", "center harbor", "gilford", "gilmanton", "laconia", "meredith",
			"new hampton", "sanbornton", "tilton",
		},
	},
	"carroll": {
		center: model.Coordinates{Latitude: 43.874, Longitude: -71.208},
		towns: []string{
			"albany", "bartlett", "brookfield", "chatham", "conway", "eaton", "effingham", "freedom",
			"hart's location", "jackson", "madison", "moultonborough", "ossipee", "sandwich", "tamworth",
			"tuftonboro", "wakefield", "wolfeboro",
		},
	},
	"cheshire": {
		center: model.Coordinates{Latitude: 42.9337, Longitude: -72.2781},
		towns: []string{
			"alstead", "chesterfield", "dublin", "fitzwilliam", "gilsum", "harrisville", "hinsdale",
			"jaffrey", "keene", "marlborough", "marlow", "nelson", "richmond", "rindge", "roxbury",
			"stoddard", "sullivan", "surry", "swanzey", "troy", "walpole", "westmoreland", "winchester",
		},
	},
	"coos": {
		center: model.Coordinates{Latitude: 44.689, Longitude: -71.3059},
		towns: []string{
			"berlin", "carroll", "clarksville", "colebrook", "columbia", "dalton", "dummer", "errol",
			"gorham", "jefferson", "lancaster", "milan", "northumberland", "pittsburg", "randolph",
			"shelburne", "stark", "stewartstown", "stratford", "whitefield",
		},
	},
	"grafton": {
		center: model.Coordinates{Latitude: 43.912, Longitude: -71.904},
		towns: []string{
			"alexandria", "ashland", "bath", "benton", "bethlehem", "bridgewater", "bristol", "campton",
			"canaan", "enfield", "franconia", "grafton", "groton", "hanover", "haverhill", "hebron",
			"holderness", "landaff", "lebanon", "lincoln", "lisbon", "littleton", "lyman", "lyme", "monroe",
			"orange", "orford", "piermont", "plymouth", "rumney", "sugar hill", "thornton", "warren",
			"waterville valley", "wentworth", "woodstock",
		},
	},
	"hillsborough": {
		center: model.Coordinates{Latitude: 42.915, Longitude: -71.716},
		towns: []string{
			"amherst", "antrim", "bedford", "bennington", "brookline", "deering", "francestown",
			"goffstown", "greenfield", "greenville", "hancock", "hillsborough", "hollis", "hudson",
			"litchfield", "lyndeborough", "manchester", "mason", "merrimack", "milford", "mont vernon",
			"nashua", "new boston", "new ipswich", "pelham", "peterborough", "sharon", "temple", "weare",
			"wilton", "windsor",
		},
	},
	"merrimack": {
		center: model.Coordinates{Latitude: 43.238, Longitude: -71.56},
		towns: []string{
			"allenstown", "andover", "boscawen", "bow", "bradford", "canterbury", "chichester", "concord",
			"danbury", "dunbarton", "epsom", "franklin", "henniker", "hill", "hopkinton", "loudon",
			"newbury", "new london", "northfield", "pembroke", "pittsfield", "salisbury", "sutton",
			"warner", "webster", "wilmot",
		},
	},
	"rockingham": {
		center: model.Coordinates{Latitude: 42.981, Longitude: -71.081},
		towns: []string{
			"atkinson", "auburn", "brentwood", "candia", "chester", "danville", "deerfield", "derry",
			"east kingston", "epping", "exeter", "fremont", "greenland", "hampstead", "hampton",
			"hampton falls", "kensington", "kingston", "londonderry", "new castle", "newfields",
			"newington", "newmarket", "newton", "north hampton", "nottingham", "plaistow", "portsmouth",
			"raymond", "rye", "salem", "sandown", "seabrook", "south hampton", "stratham", "windham",
		},
	},
	"strafford": {
		center: model.Coordinates{Latitude: 43.265, Longitude: -71.029},
		towns: []string{
			"barrington", "dover", "durham", "farmington", "lee", "madbury", "middleton", "milton",
			"new durham", "northwood", "rochester", "rollinsford", "somerville", "strafford",
		},
	},
	"sullivan": {
		center: model.Coordinates{Latitude: 43.36, Longitude: -72.222},
		towns: []string{
			"acworth", "charlestown", "claremont", "cornish", "croydon", "goshen", "grantham", "langdon",
			"lempster", "newport", "plainfield", "springfield", "sunapee", "unity", "washington",
		},
	},
}
