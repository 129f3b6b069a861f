// pkg/skillcatalog/data.go
package skillcatalog

// defaultCategories is the embedded skill vocabulary used when no catalog
// file is configured or the configured one cannot be read.
var defaultCategories = map[string][]string{
	"programming_languages": {
		"C", "C++", "C#", "Python", "Java", "JavaScript", "TypeScript",
		"Go", "Rust", "Ruby", "PHP", "Swift", "Kotlin", "Scala", "R",
		"Perl", "Haskell", "Elixir", "Clojure", "Dart", "Lua", "MATLAB",
		"Objective-C", "Groovy",
	},
	"frontend_frameworks": {
		"HTML", "CSS", "React", "Angular", "Vue.js", "Svelte", "Next.js",
		"Nuxt.js", "Ember.js", "Backbone.js", "jQuery", "Redux",
		"Tailwind CSS", "Bootstrap", "Material UI", "Sass", "Storybook",
		"Webpack", "Vite", "Gatsby",
	},
	"backend_frameworks": {
		"Node.js", "Express", "Django", "Flask", "FastAPI", "Spring Boot",
		"Ruby on Rails", "Laravel", "Symfony", "ASP.NET", "NestJS", "Gin",
		"Echo", "Fiber", "Phoenix", "Koa", "GraphQL", "gRPC", "Celery",
		"Hibernate",
	},
	"databases": {
		"SQL", "PostgreSQL", "MySQL", "SQLite", "MongoDB", "Redis",
		"Cassandra", "Elasticsearch", "DynamoDB", "Oracle", "SQL Server",
		"MariaDB", "CouchDB", "Neo4j", "InfluxDB", "Memcached", "Firebase",
		"Supabase",
	},
	"cloud_platforms": {
		"AWS", "Azure", "Google Cloud", "GCP", "Heroku", "DigitalOcean",
		"Vercel", "Netlify", "Cloudflare", "AWS Lambda", "S3", "EC2",
		"OpenStack", "Linode",
	},
	"devops_tools": {
		"Docker", "Kubernetes", "Jenkins", "GitHub Actions", "GitLab CI",
		"CircleCI", "Travis CI", "Terraform", "Ansible", "Puppet", "Chef",
		"Helm", "Prometheus", "Grafana", "Nginx", "Vagrant", "ArgoCD",
		"Istio", "Datadog", "Splunk",
	},
	"data_science": {
		"Machine Learning", "Deep Learning", "Data Science", "TensorFlow",
		"PyTorch", "Keras", "Scikit-learn", "Pandas", "NumPy", "SciPy",
		"Matplotlib", "Seaborn", "Jupyter", "NLP", "Computer Vision",
		"OpenCV", "XGBoost", "Apache Spark", "Hadoop", "Airflow", "MLflow",
		"Hugging Face", "Power BI",
	},
	"tools_and_platforms": {
		"Git", "GitHub", "GitLab", "Bitbucket", "Jira", "Confluence",
		"Slack", "Linux", "Ubuntu", "Bash", "PowerShell", "Vim", "VS Code",
		"IntelliJ IDEA", "Postman", "Figma", "Kafka", "RabbitMQ",
		"Salesforce", "SAP", "Tableau", "Excel",
	},
}

// defaultAliases is the curated abbreviation / synonym / typo table. It is
// merged into every catalog, with file-provided aliases taking precedence.
var defaultAliases = map[string]string{
	"py":            "Python",
	"pyton":         "Python",
	"pythn":         "Python",
	"js":            "JavaScript",
	"javascrip":     "JavaScript",
	"javasript":     "JavaScript",
	"ts":            "TypeScript",
	"golang":        "Go",
	"k8s":           "Kubernetes",
	"kube":          "Kubernetes",
	"kubernates":    "Kubernetes",
	"kubernets":     "Kubernetes",
	"reactjs":       "React",
	"nodejs":        "Node.js",
	"node":          "Node.js",
	"vuejs":         "Vue.js",
	"vue":           "Vue.js",
	"nextjs":        "Next.js",
	"nuxtjs":        "Nuxt.js",
	"angularjs":     "Angular",
	"expressjs":     "Express",
	"dotnet":        "ASP.NET",
	"postgres":      "PostgreSQL",
	"psql":          "PostgreSQL",
	"postgress":     "PostgreSQL",
	"mongo":         "MongoDB",
	"elastic":       "Elasticsearch",
	"tf":            "TensorFlow",
	"sklearn":       "Scikit-learn",
	"ml":            "Machine Learning",
	"html5":         "HTML",
	"css3":          "CSS",
	"scss":          "Sass",
	"tailwind":      "Tailwind CSS",
	"gcloud":        "Google Cloud",
	"github":        "GitHub",
	"gitlab":        "GitLab",
	"vscode":        "VS Code",
	"intellij":      "IntelliJ IDEA",

	"amazon web services":         "AWS",
	"google cloud platform":       "GCP",
	"natural language processing": "NLP",
	"visual studio code":          "VS Code",
}

// Default returns the embedded catalog.
func Default() *Catalog {
	return New(defaultCategories, defaultAliases)
}
