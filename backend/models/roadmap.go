package models

// DefaultCatalog returns the MLOps roadmap. Each call builds a fresh value so callers can
// never alias and mutate a shared instance.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Title:   "MLOps Mastery Roadmap",
		Tagline: "From Jupyter Notebooks to Production-Grade ML Systems",
		Closing: Note{
			Heading: "We Cannot Be an Architect if Our Code Only Lives in a Notebook",
			Body: "This roadmap transforms us from a data scientist into an ML Engineer, MLOps engineer who builds production-grade systems. " +
				"Each phase builds on the previous one, creating a solid foundation for deploying machine learning at scale.",
		},
		Phases: []Phase{
			{
				Number:   1,
				Title:    "Escaping the Notebook",
				Subtitle: "The Foundation",
				Color:    ColorBlue,
				Steps: []Step{
					{1, "Advanced Bash & Linux Mastery", "Master grep, awk, SSH, and writing .sh scripts. The cloud runs on Linux; you must speak its native language fluently."},
					{2, "Git & GitHub (Version Control)", "Stop saving files as budget_final_v2.ipynb. Learn to initialize a repository, create feature branches, write proper commit messages, and merge code."},
					{3, "Virtual Environments & Dependency Management", "Learn venv or Poetry. The requirements.txt file is your first structural brick for reproducible environments."},
				},
			},
			{
				Number:   2,
				Title:    "The Laboratory",
				Subtitle: "Tracking & Serving",
				Color:    ColorGreen,
				Steps: []Step{
					{4, "Modular Python Engineering", "Break your code into separate files: train.py, preprocess.py, and predict.py. An Architect builds interchangeable parts."},
					{5, "Experiment Tracking (MLflow)", "Integrate MLflow into your training script. Build a dashboard of your experiments instead of trying to remember them."},
					{6, "API Development (FastAPI)", "Wrap your trained .pkl model in FastAPI. Write endpoints so other computers can send JSON requests and get predictions back."},
				},
			},
			{
				Number:   3,
				Title:    "The Kitchen",
				Subtitle: "Containerization",
				Color:    ColorPurple,
				Steps: []Step{
					{7, "Docker Basics", "Write a Dockerfile for your FastAPI app. Install Python, dependencies, copy your model, and start the server."},
					{8, "Docker Image Building", "Build the Docker Image. Trap your code and the operating system into a single, unbreakable box."},
					{9, "Docker Compose", "Run your FastAPI container and a PostgreSQL database container at the same time, networked together."},
				},
			},
			{
				Number:   4,
				Title:    "The Conveyor Belt",
				Subtitle: "CI/CD & Cloud",
				Color:    ColorOrange,
				Steps: []Step{
					{10, "Continuous Integration (GitHub Actions)", "Write a YAML script so every push to GitHub runs automated tests to check if you broke anything."},
					{11, "Container Registry", "Push your finished Docker Image to Docker Hub or AWS ECR. Store it in the cloud, ready to be pulled by any server."},
					{12, "Cloud Deployment (AWS EC2 or DigitalOcean)", "Rent a Linux server, SSH into it, pull your Docker image, and run it. Your API is now live on the global internet."},
				},
			},
			{
				Number:   5,
				Title:    "The Head Chef's Audit",
				Subtitle: "Monitoring & Orchestration",
				Color:    ColorRed,
				Steps: []Step{
					{13, "System Monitoring (Prometheus & Grafana)", "Set up dashboards that watch your server. Get alerts before your API crashes and the client notices."},
					{14, "Data & Model Drift Monitoring (Evidently AI)", "Monitor statistical distribution of incoming data and trigger alerts when the model becomes stale."},
					{15, "Workflow Orchestration (Apache Airflow)", "The Final Boss. Build pipelines that automatically pull fresh data, retrain models, package in Docker, and deploy while you sleep."},
				},
			},
		},
	}
}
